package logging

import (
	"context"
	"testing"
)

func TestWithLoggerAndFromContext(t *testing.T) {
	tl := NewTestLogger(t)
	ctx := WithLogger(context.Background(), tl.Logger)

	FromContext(ctx).Info().Msg("from context")
	if !tl.Contains("from context") {
		t.Errorf("context logger did not capture message: %s", tl.Output())
	}
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	if FromContext(context.Background()) != Default() {
		t.Error("empty context should yield the default logger")
	}
	if FromContext(nil) != Default() { //nolint:staticcheck // nil context is the case under test
		t.Error("nil context should yield the default logger")
	}
}

func TestWithFieldHelpers(t *testing.T) {
	tl := NewTestLogger(t)
	ctx := WithLogger(context.Background(), tl.Logger)
	ctx = WithSource(ctx, "supplier_pricelist")
	ctx = WithItem(ctx, "ABC100")

	Ctx(ctx).Info().Msg("tagged")

	for _, want := range []string{"supplier_pricelist", "ABC100", "tagged"} {
		if !tl.Contains(want) {
			t.Errorf("output missing %q: %s", want, tl.Output())
		}
	}
}
