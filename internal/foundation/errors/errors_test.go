package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifiedError_Text(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "message only",
			err:  ConfigError("catalog is empty").Build(),
			want: "config: catalog is empty",
		},
		{
			name: "path appended",
			err:  AssetError("extension is not allowed").WithPath("static/logo.png").Build(),
			want: "asset: extension is not allowed [static/logo.png]",
		},
		{
			name: "path already in message",
			err:  ClassificationError("pages/x.md matches no entry").WithPath("pages/x.md").Build(),
			want: "classification: pages/x.md matches no entry",
		},
		{
			name: "cause last",
			err:  WrapError(errors.New("exit status 1"), CategoryConversion, "converter failed").WithPath("pages/Meta.md").Build(),
			want: "conversion: converter failed [pages/Meta.md]: exit status 1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestClassifiedError_Chain(t *testing.T) {
	cause := errors.New("permission denied")
	err := WrapError(cause, CategoryPublish, "cannot write page").Fatal().WithPath("dist/index.html").Build()
	wrapped := fmt.Errorf("publish: %w", err)

	assert.ErrorIs(t, wrapped, cause)
	assert.True(t, HasCategory(wrapped, CategoryPublish))
	assert.False(t, HasCategory(wrapped, CategoryAsset))
	assert.Equal(t, CategoryPublish, GetCategory(wrapped))
	assert.Equal(t, CategoryInternal, GetCategory(errors.New("plain")))

	classified, ok := AsClassified(wrapped)
	require.True(t, ok)
	assert.True(t, classified.IsFatal())
	assert.Equal(t, "dist/index.html", classified.Path())
}

func TestConstructorsAreFatal(t *testing.T) {
	tests := []struct {
		builder  *ErrorBuilder
		category ErrorCategory
	}{
		{ConfigError("x"), CategoryConfig},
		{ValidationError("x"), CategoryValidation},
		{DiscoveryError("x"), CategoryDiscovery},
		{ClassificationError("x"), CategoryClassification},
		{ConversionError("x"), CategoryConversion},
		{AssetError("x"), CategoryAsset},
		{PublishError("x"), CategoryPublish},
		{InternalError("x"), CategoryInternal},
	}
	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			err := tt.builder.Build()
			assert.Equal(t, tt.category, err.Category())
			assert.Equal(t, SeverityFatal, err.Severity())
		})
	}
}

func TestWithContext_Immutable(t *testing.T) {
	b := NewError(CategoryAsset, "bad asset").WithContext("kind", "css")
	base := b.Build()
	derived := base.WithContext(ContextPath, "static/logo.png")
	again := b.WithPath("static/app.js").Build()

	assert.Equal(t, SeverityError, base.Severity())
	assert.Empty(t, base.Path())
	assert.Equal(t, "static/logo.png", derived.Path())
	assert.Equal(t, "static/app.js", again.Path())
	assert.Empty(t, base.Path(), "builder reuse must not leak into built errors")

	kind, ok := derived.Context().GetString("kind")
	assert.True(t, ok)
	assert.Equal(t, "css", kind)
}
