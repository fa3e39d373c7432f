package duckduckgo

import "github.com/pkg/errors"

// ErrCaptcha is returned when DuckDuckGo answers with a captcha challenge
// instead of a result page.
var ErrCaptcha = errors.New("captcha challenge")
