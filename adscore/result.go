package adscore

// Result is the outcome of dispatching an ads.call: either the raw reply
// payload bytes, or an ADS error code.
type Result struct {
	Data []byte
	Err  Error
}

// OK builds a successful Result.
func OK(data []byte) Result {
	return Result{Data: data}
}

// Failed builds a failed Result carrying an ADS error code.
func Failed(code Error) Result {
	return Result{Err: code}
}

// IsOK reports whether the result represents success.
func (r Result) IsOK() bool {
	return r.Err == ErrNone
}
