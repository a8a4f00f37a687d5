package testutil

import "testing"

// ExpectFatal runs fn, which is expected to trip a fatal heap condition,
// and returns the error the resulting panic carried. The test fails if
// fn returns normally or panics with something that is not an error.
//
// Example:
//
//	err := testutil.ExpectFatal(t, func() {
//		h.NewBlock(1 << 40)
//	})
//	require.ErrorIs(t, err, heap.ErrOutOfMemory)
func ExpectFatal(t *testing.T, fn func()) (err error) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		if r == nil {
			t.Fatal("expected a fatal heap condition, got none")
		}
		e, ok := r.(error)
		if !ok {
			t.Fatalf("fatal panic carried %T, want error", r)
		}
		err = e
	}()
	fn()
	return nil
}
