// Package convert turns page source documents into HTML fragments.
//
// A Converter renders one document. CommandConverter runs an external highlighting
// tool per page, GoldmarkConverter renders in-process, and StaticConverter serves
// fixed output for tests.
//
// Pool runs conversions with a bounded number of workers. Jobs are submitted while
// the source tree is still being walked and joined later, in whatever order the
// caller needs. Every job has its own timeout, and the first failure cancels all
// conversions still running.
package convert
