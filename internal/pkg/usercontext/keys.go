package usercontext

// Locals keys populated by the user context middleware.
const (
	KeyUserContext = "USER_CONTEXT"
	KeyXeroUserID  = "XERO_USER_ID"
	KeyUserName    = "USER_NAME"
	KeyTenantID    = "TENANT_ID"
	KeyTenantName  = "TENANT_NAME"
)

// Session keys written by the sign-up flow.
const (
	SessionXeroUserID = "xero_user_id"
	SessionUserName   = "user_name"
	SessionTenantID   = "tenant_id"
	SessionTenantName = "tenant_name"
)
