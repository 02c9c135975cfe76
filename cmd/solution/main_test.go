package main

import (
	"reflect"
	"testing"
)

func TestRewriteDirectItemLookupArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "no args",
			in:   []string{"solution"},
			want: []string{"solution"},
		},
		{
			name: "item path first token",
			in:   []string{"solution", "/Demo/Backend"},
			want: []string{"solution", "show", "Demo", "/Demo/Backend"},
		},
		{
			name: "root only",
			in:   []string{"solution", "/Demo"},
			want: []string{"solution", "show", "Demo", "/Demo"},
		},
		{
			name: "item path after value flag",
			in:   []string{"solution", "--dir", "./tmp-test-ws", "/Demo/a"},
			want: []string{"solution", "--dir", "./tmp-test-ws", "show", "Demo", "/Demo/a"},
		},
		{
			name: "item path after equals flag",
			in:   []string{"solution", "--backend=xml", "/Demo/a"},
			want: []string{"solution", "--backend=xml", "show", "Demo", "/Demo/a"},
		},
		{
			name: "item path after bool flag",
			in:   []string{"solution", "--pretty", "/Demo/a"},
			want: []string{"solution", "--pretty", "show", "Demo", "/Demo/a"},
		},
		{
			name: "item path after double dash",
			in:   []string{"solution", "--", "/Demo/a"},
			want: []string{"solution", "--", "show", "Demo", "/Demo/a"},
		},
		{
			name: "bare slash not rewritten",
			in:   []string{"solution", "/"},
			want: []string{"solution", "/"},
		},
		{
			name: "normal subcommand not rewritten",
			in:   []string{"solution", "show", "Demo", "/Demo/a"},
			want: []string{"solution", "show", "Demo", "/Demo/a"},
		},
		{
			name: "unknown command not rewritten",
			in:   []string{"solution", "wat"},
			want: []string{"solution", "wat"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := rewriteDirectItemLookupArgs(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("rewriteDirectItemLookupArgs:\n got: %#v\nwant: %#v", got, tt.want)
			}
		})
	}
}
