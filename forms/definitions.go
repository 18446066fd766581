package forms

// Default messages for rules that have no custom text.
const (
	fieldRequiredMessage = "This field is required."
	usernameLengthMsg    = "Field must be between 4 and 50 characters long."
	emailLengthMsg       = "Field must be between 6 and 100 characters long."
)

// LoginForm is posted to /login.
type LoginForm struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

// Rules of the login form. Credentials themselves are checked by the auth gateway.
func (LoginForm) Rules() []Rule {
	return []Rule{
		{Field: "username", Tag: "min=4,max=50", Message: usernameLengthMsg},
		{Field: "password", Tag: "notblank", Message: "Password is a required field.", Stop: true},
	}
}

// RegisterForm is posted to /register.
type RegisterForm struct {
	// Honeypot is hidden from humans; anything typed into it marks the submission as automated.
	Honeypot        string `form:"honeypot" json:"honeypot"`
	Username        string `form:"username" json:"username"`
	Email           string `form:"email" json:"email"`
	Password        string `form:"password" json:"password"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password"`
	Accept          bool   `form:"accept" json:"accept"`
}

// Rules of the registration form. Username and email availability are checked
// separately against the credential store (see auth.Gateway.Register).
func (RegisterForm) Rules() []Rule {
	return []Rule{
		{Field: "honeypot", Tag: "honeypot", Message: "Only humans can fill this form!"},
		{Field: "username", Tag: "min=4,max=50", Message: usernameLengthMsg},
		{Field: "username", Tag: "notreserved", Message: "This username is not allowed."},
		{Field: "email", Tag: "min=6,max=100", Message: emailLengthMsg},
		{Field: "email", Tag: "notblank", Message: "Email is a required field.", Stop: true},
		{Field: "email", Tag: "email", Message: "Please enter a valid email address."},
		{Field: "password", Tag: "notblank", Message: fieldRequiredMessage, Stop: true},
		{Field: "password", Tag: "eqcsfield", Other: "confirm_password", Message: "Passwords do not match."},
		{Field: "accept", Tag: "required", Message: fieldRequiredMessage, Stop: true},
	}
}

// TaskForm is posted to /tasks/new and /tasks/edit/{id}.
type TaskForm struct {
	Title       string `form:"title" json:"title"`
	Description string `form:"description" json:"description"`
}

// Rules of the task form.
func (TaskForm) Rules() []Rule {
	return []Rule{
		{Field: "title", Tag: "min=4,max=50", Message: "Title length out of range"},
		{Field: "title", Tag: "notblank", Message: "A task title is required.", Stop: true},
		{Field: "description", Tag: "notblank", Message: "A task description is required", Stop: true},
	}
}
