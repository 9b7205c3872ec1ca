package session

// UserProfile caches the display fields returned by the authentication
// endpoint. It is presentation data only; the server stays the authority for
// every permission decision.
type UserProfile struct {
	Username         string   `json:"username"`
	OfficeName       string   `json:"officeName"`
	StaffDisplayName string   `json:"staffDisplayName"`
	Roles            []string `json:"roles"`
	Permissions      string   `json:"permissions"`
}

// State is a point-in-time snapshot of the session.
type State struct {
	Authenticated bool
	Checking      bool
	Tenant        string
	User          *UserProfile
}

// authenticationRequest is the platform login payload.
type authenticationRequest struct {
	Username         string `json:"username"`
	Password         string `json:"password"`
	ReturnClientList bool   `json:"returnClientList"`
}

// authenticationResponse is the platform login result. The key is an opaque,
// server-issued Basic credential; the client never constructs or decodes it.
type authenticationResponse struct {
	Authenticated                  bool     `json:"authenticated"`
	Base64EncodedAuthenticationKey string   `json:"base64EncodedAuthenticationKey"`
	Username                       string   `json:"username"`
	OfficeName                     string   `json:"officeName"`
	StaffDisplayName               string   `json:"staffDisplayName"`
	Roles                          []string `json:"roles"`
	Permissions                    string   `json:"permissions"`
}

func (r *authenticationResponse) profile() *UserProfile {
	return &UserProfile{
		Username:         r.Username,
		OfficeName:       r.OfficeName,
		StaffDisplayName: r.StaffDisplayName,
		Roles:            r.Roles,
		Permissions:      r.Permissions,
	}
}
