package cache

import "testing"

func TestKey_String(t *testing.T) {
	tests := []struct {
		name string
		key  Key
		want string
	}{
		{
			name: "resource only",
			key:  Key{Resource: "team"},
			want: "vault:team",
		},
		{
			name: "resource with one param",
			key: Key{
				Resource: "table",
				Params:   map[string]string{"competition": "PL"},
			},
			want: "vault:table:competition=PL",
		},
		{
			name: "params are sorted",
			key: Key{
				Resource: "upcoming",
				Params: map[string]string{
					"team":   "67",
					"status": "SCHEDULED",
				},
			},
			want: "vault:upcoming:status=SCHEDULED:team=67",
		},
		{
			name: "resource is trimmed",
			key:  Key{Resource: "/live/"},
			want: "vault:live",
		},
		{
			name: "empty key",
			key:  Key{},
			want: "vault",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.key.String(); got != tt.want {
				t.Errorf("String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKey_String_Deterministic(t *testing.T) {
	key := Key{
		Resource: "recent",
		Params: map[string]string{
			"team":   "67",
			"status": "FINISHED",
			"limit":  "10",
		},
	}

	first := key.String()
	for i := 0; i < 100; i++ {
		if got := key.String(); got != first {
			t.Fatalf("iteration %d: String() = %v, want %v", i, got, first)
		}
	}
}
