package completion

import "fmt"

const (
	failureContextConstant          = "API call failed"
	failureSentinelTemplateConstant = "[ERROR: %s - %s]"
)

// Result is the outcome of one completion request.
type Result struct {
	text    string
	failure error
}

// Succeeded wraps a response text.
func Succeeded(text string) Result {
	return Result{text: text}
}

// Failed wraps the error that prevented a response.
func Failed(failure error) Result {
	return Result{failure: failure}
}

// Successful reports whether the service returned a response.
func (result Result) Successful() bool {
	return result.failure == nil
}

// Text returns the response text of a successful result.
func (result Result) Text() string {
	return result.text
}

// Failure returns the error of a failed result.
func (result Result) Failure() error {
	return result.failure
}

// Render returns the response text, or the error sentinel for a failed result.
func (result Result) Render() string {
	if result.failure != nil {
		return fmt.Sprintf(failureSentinelTemplateConstant, failureContextConstant, result.failure.Error())
	}
	return result.text
}
