package anonymizer

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractTags(t *testing.T) {
	a := New(GermanRules())

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			"explicit hashtags",
			"Heute #Dankbar und #ruhe gefühlt",
			[]string{"#dankbar", "#ruhe"},
		},
		{
			"activity keywords",
			"Nach der Arbeit eine Runde spazieren gegangen",
			[]string{"#spazieren", "#arbeit"},
		},
		{
			"hashtags before keywords, deduplicated",
			"#sport gemacht und danach Sport geschaut",
			[]string{"#sport"},
		},
		{
			"no tags",
			"Nichts Besonderes passiert",
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := a.ExtractTags(tt.text)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractTags_Cap(t *testing.T) {
	a := New(GermanRules())

	var b strings.Builder
	for i := 0; i < 30; i++ {
		fmt.Fprintf(&b, "#tag%d ", i)
	}

	got := a.ExtractTags(b.String())
	assert.Len(t, got, maxTags)
	assert.Equal(t, "#tag0", got[0])
}
