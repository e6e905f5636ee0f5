package authflow

// Severity of a user-facing modal.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// Modal is a pending user-facing notice. Created by any failure or
// confirmation event; cleared when the user acknowledges it.
type Modal struct {
	Title    string
	Message  string
	Severity Severity
}

func ErrorModal(title, message string) Modal {
	return Modal{Title: title, Message: message, Severity: SeverityError}
}

func SuccessModal(title, message string) Modal {
	return Modal{Title: title, Message: message, Severity: SeveritySuccess}
}

func WarningModal(title, message string) Modal {
	return Modal{Title: title, Message: message, Severity: SeverityWarning}
}
