// Package errors provides the classified error primitives shared by every build stage.
//
// Each stage reports failures as a ClassifiedError carrying a category (discovery,
// classification, conversion, asset, publish, ...), a severity and structured context
// such as the offending path. The CLI adapter turns the category into a process exit
// code and a message that names the failing path.
//
// Example usage:
//
//	err := errors.ClassificationError("source document is not in the page catalog").
//		WithPath(path).
//		Build()
package errors
