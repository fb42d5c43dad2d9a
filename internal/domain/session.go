package domain

// Session is an authenticated console caller.
// Subject keys per-user state; Token is forwarded to the platform API.
type Session struct {
	Subject string
	Token   string
}
