package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_Parsed(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"single value", `{"text":"hello world"}`, "hello world"},
		{"keys excluded", `{"a":"x","b":"y"}`, "x y"},
		{"nested", `{"meta":{"lang":"en"},"text":"body"}`, "en body"},
		{"array values", `{"tags":["a","b","c"]}`, "a b c"},
		{"top-level array", `["p","q"]`, "p q"},
		{"non-strings skipped", `{"n":-12.5e3,"ok":true,"no":false,"nil":null,"s":"v"}`, "v"},
		{"empty strings skipped", `{"a":"","b":"x","c":""}`, "x"},
		{"escapes", `{"t":"line\nbreak \"q\" back\\slash \/ tab\t"}`, "line\nbreak \"q\" back\\slash / tab\t"},
		{"unicode escape", `{"t":"caf\u00e9"}`, "café"},
		{"surrogate pair", `{"t":"\ud83d\ude00"}`, "😀"},
		{"lone surrogate", `{"t":"a\ud800b"}`, "a�b"},
		{"raw utf8", `{"t":"naïve"}`, "naïve"},
		{"whitespace", " { \"a\" : \"x\" , \"b\" : [ \"y\" ] } \r", "x y"},
		{"keys with escapes", `{"k\"ey":"v"}`, "v"},
		{"deep", `{"a":[[[{"b":[["x"]]}]]]}`, "x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := Extract([]byte(tt.line), nil)
			require.NoError(t, o.Err)
			assert.Equal(t, Parsed, o.Kind)
			assert.Equal(t, tt.want, string(o.Content))
		})
	}
}

func TestExtract_Malformed(t *testing.T) {
	tests := []string{
		``,
		`plain text line`,
		`"just a string"`,
		`42`,
		`{"a":"unterminated}`,
		`{"a":"x"`,
		`{"a":"x"}}`,
		`{"a":"x"} trailing`,
		`{"a" "x"}`,
		`{"a":"x",}`,
		`{"a":"bad \q escape"}`,
		`{"a":"\u12"}`,
		`{"a":tru}`,
		`{"a":01}`,
		`{"a":1.}`,
		`{"a":1e}`,
		`["a",]`,
		`{a:"x"}`,
		"{\"a\":\"ctl\x01\"}",
		`[}`,
	}
	for _, line := range tests {
		t.Run(line, func(t *testing.T) {
			o := Extract([]byte(line), nil)
			assert.Equal(t, Raw, o.Kind)
			assert.ErrorIs(t, o.Err, ErrMalformedRecord)
			assert.Equal(t, line, string(o.Content))

			var me *MalformedError
			require.ErrorAs(t, o.Err, &me)
			assert.GreaterOrEqual(t, me.Offset, 0)
			assert.LessOrEqual(t, me.Offset, len(line))
		})
	}
}

func TestExtract_NoText(t *testing.T) {
	for _, line := range []string{`{}`, `[]`, `{"n":1,"b":[true,null]}`, `{"a":""}`} {
		o := Extract([]byte(line), nil)
		assert.Equal(t, Raw, o.Kind, line)
		assert.NoError(t, o.Err, line)
		assert.Equal(t, line, string(o.Content), line)
	}
}

func TestExtract_ReusesBuffer(t *testing.T) {
	buf := make([]byte, 0, 64)
	o := Extract([]byte(`{"a":"xyz"}`), buf)
	require.Equal(t, Parsed, o.Kind)
	assert.Equal(t, &buf[:1][0], &o.Content[0])
}

func TestExtractor(t *testing.T) {
	e := Acquire()
	defer Release(e)

	o := e.Extract([]byte(`{"a":"first"}`))
	assert.Equal(t, "first", string(o.Content))

	o = e.Extract([]byte(`not json`))
	assert.Equal(t, Raw, o.Kind)

	o = e.Extract([]byte(`{"a":"second","b":"value"}`))
	assert.Equal(t, "second value", string(o.Content))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "parsed", Parsed.String())
	assert.Equal(t, "raw", Raw.String())
}

func BenchmarkExtract(b *testing.B) {
	line := []byte(`{"id":123,"meta":{"source":"web","lang":"en"},"text":"The quick brown fox jumps over the lazy dog. é And then some more text follows here.","tags":["a","b"]}`)
	buf := make([]byte, 0, 256)
	b.SetBytes(int64(len(line)))
	b.ReportAllocs()
	for b.Loop() {
		o := Extract(line, buf)
		buf = o.Content[:0]
	}
}
