package session

// User roles as issued by the IAM service.
const (
	RoleAdmin     = "admin"
	RoleManager   = "manager"
	RoleDeveloper = "developer"
	RoleViewer    = "viewer"
)

// User is the authenticated account record returned by the IAM service.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"name"`
	AvatarURL   string `json:"avatar,omitempty"`
	Role        string `json:"role"`
	TenantID    string `json:"tenant_id"`
}
