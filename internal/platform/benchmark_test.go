package platform

import (
	"context"
	"testing"
)

func BenchmarkDetect(b *testing.B) {
	detector := NewDetector()
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = detector.Detect(ctx)
	}
}

func BenchmarkTagFor(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = TagFor("linux", "amd64").String()
	}
}

func BenchmarkParseTag(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = ParseTag("linux64")
	}
}
