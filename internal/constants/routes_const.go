package constants

// Base Routes
const (
	HomePath    = "/"
	HealthPath  = "/health"
	VersionPath = "/version"
	AdminPath   = "/admin"
)

// Authentication Routes
const (
	LoginPath          = "/login"
	LogoutPath         = "/logout"
	ForgotPasswordPath = "/forgot-password"
	ResetPasswordPath  = "/reset-password"
	ResetPasswordToken = "/reset-password/{token}"
	ActivatePath       = "/activate"
)

// URL Parameters
const (
	ParamToken = "token"
)

// View names returned in view-model responses.
const (
	ViewLogin           = "login/index"
	ViewForgotPassword  = "login/forgot-password"
	ViewResetPassword   = "reset-password"
	ViewActivateAccount = "login/activate-account"
	ViewHome            = "home"
	ViewAdmin           = "admin"
)

// Page titles
const (
	TitleForgotPassword  = "Forgotten password?"
	TitleResetPassword   = "Reset your password"
	TitleActivateAccount = "Activate Account"
	TitleHome            = "Home"
	TitleAdmin           = "Administration"
)
