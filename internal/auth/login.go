package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
)

// UnexpectedError replaces any failure the auth service did not explain.
const UnexpectedError = "An unexpected error occurred"

// Request is one sign-in or sign-up attempt.
type Request struct {
	Email    string
	Password string
	SignUp   bool
}

type Result struct {
	Message          string
	ConfirmationSent bool
}

// Login is the sign-in/sign-up screen state. Begin and Finish run on the
// UI loop; Attempt may run anywhere.
type Login struct {
	Email            string
	Password         string
	SignUp           bool
	Pending          bool
	Message          string
	ConfirmationSent bool
}

// Begin starts an attempt. It refuses while another one is pending.
func (l *Login) Begin() (Request, bool) {
	if l.Pending {
		return Request{}, false
	}
	l.Pending = true
	l.Message = ""
	return Request{Email: strings.TrimSpace(l.Email), Password: l.Password, SignUp: l.SignUp}, true
}

func (l *Login) Finish(r Result) {
	l.Pending = false
	l.Message = r.Message
	if r.ConfirmationSent {
		l.ConfirmationSent = true
	}
}

func (l *Login) ToggleMode() {
	l.SignUp = !l.SignUp
	l.Message = ""
}

// BackToSignIn leaves the confirmation screen.
func (l *Login) BackToSignIn() {
	l.ConfirmationSent = false
	l.SignUp = false
	l.Message = ""
}

// Submit runs a whole attempt synchronously.
func (l *Login) Submit(ctx context.Context, gw Gateway, logger *log.Logger) bool {
	req, ok := l.Begin()
	if !ok {
		return false
	}
	l.Finish(Attempt(ctx, gw, req, logger))
	return true
}

// Attempt calls the gateway. Errors reported by the service come back
// verbatim; anything else is logged and replaced with UnexpectedError.
func Attempt(ctx context.Context, gw Gateway, req Request, logger *log.Logger) (res Result) {
	if logger == nil {
		logger = log.Default()
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Printf("auth attempt panicked: %v", r)
			res = Result{Message: UnexpectedError}
		}
	}()

	var err error
	if req.SignUp {
		var out SignUpResult
		out, err = gw.SignUp(ctx, req.Email, req.Password)
		if err == nil {
			return Result{ConfirmationSent: out.EmailConfirmationRequired}
		}
	} else {
		err = gw.SignIn(ctx, req.Email, req.Password)
		if err == nil {
			return Result{}
		}
	}
	return Result{Message: describe(err, logger)}
}

func describe(err error, logger *log.Logger) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	logger.Printf("auth: %v", err)
	return UnexpectedError
}

// ConfirmationText is shown after a sign-up that needs email confirmation.
func ConfirmationText(email string) string {
	return fmt.Sprintf("We've sent a confirmation link to %s.\nPlease check your email and click the link to complete your registration.", email)
}
