package flagx

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "separate value",
			args:    []string{"-s", "secret", "-a", ":8080"},
			allowed: []string{"-s"},
			want:    []string{"-s", "secret"},
		},
		{
			name:    "equals form",
			args:    []string{"--config=issuer.json", "-a", ":8080"},
			allowed: []string{"-c", "--config"},
			want:    []string{"--config=issuer.json"},
		},
		{
			name:    "unknown flags dropped",
			args:    []string{"-x", "1", "--y=2", "positional"},
			allowed: []string{"-a"},
			want:    []string{},
		},
		{
			name:    "trailing flag without value",
			args:    []string{"-a"},
			allowed: []string{"-a"},
			want:    []string{"-a"},
		},
		{
			name:    "next dash token is not a value",
			args:    []string{"-a", "-d", "memory"},
			allowed: []string{"-a"},
			want:    []string{"-a"},
		},
		{
			name:    "order and repeats preserved",
			args:    []string{"-d", "memory", "-t", "5", "-d", "sqlite:x.db"},
			allowed: []string{"-d", "-t"},
			want:    []string{"-d", "memory", "-t", "5", "-d", "sqlite:x.db"},
		},
		{
			name:    "empty",
			args:    nil,
			allowed: []string{"-a"},
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterArgs(tt.args, tt.allowed)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("FilterArgs() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestJsonConfigFlags(t *testing.T) {
	assert.Equal(t, "/etc/issuer.json", JsonConfigFlags([]string{"-c", "/etc/issuer.json"}))
	assert.Equal(t, "/etc/guardian.json", JsonConfigFlags([]string{"-a", ":9090", "-config", "/etc/guardian.json"}))
	assert.Equal(t, "b.json", JsonConfigFlags([]string{"-c", "a.json", "-config", "b.json"}))
	assert.Empty(t, JsonConfigFlags([]string{"-x", "1"}))
}
