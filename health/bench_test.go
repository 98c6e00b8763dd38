package health

import (
	"context"
	"net/http"
	"testing"
)

func BenchmarkStatusChecker_Check(b *testing.B) {
	c := NewStatusChecker(func(context.Context) (int, error) { return http.StatusOK, nil })
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = c.Check(ctx)
	}
}

func BenchmarkRegistry_RunAll(b *testing.B) {
	r := NewRegistry(0)
	r.Register("a", CheckerFunc(healthy))
	r.Register("b", CheckerFunc(healthy))
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = r.RunAll(ctx)
	}
}
