package resthttp

import (
	"errors"
	"testing"
)

func TestResolveRange(t *testing.T) {
	const size = 13

	cases := []struct {
		name    string
		header  string
		maxSpan int64
		want    byteSpan
		wantErr error
	}{
		{name: "explicit", header: "bytes=0-4", want: byteSpan{0, 4}},
		{name: "missing start defaults to zero", header: "bytes=-4", want: byteSpan{0, 4}},
		{name: "missing end defaults to content end", header: "bytes=5-", want: byteSpan{5, 12}},
		{name: "end clamped to content end", header: "bytes=0-100", want: byteSpan{0, 12}},
		{name: "span clamped to max", header: "bytes=0-12", maxSpan: 5, want: byteSpan{0, 4}},
		{name: "clamped span keeps start", header: "bytes=6-", maxSpan: 3, want: byteSpan{6, 8}},
		{name: "single byte", header: "bytes=12-12", want: byteSpan{12, 12}},
		{name: "multiple ranges rejected", header: "bytes=0-4,6-9", wantErr: errRangeUnsatisfiable},
		{name: "start past end of content", header: "bytes=13-", wantErr: errRangeUnsatisfiable},
		{name: "inverted", header: "bytes=9-4", wantErr: errRangeUnsatisfiable},
		{name: "wrong unit", header: "items=0-4", wantErr: errMalformedRange},
		{name: "no dash", header: "bytes=5", wantErr: errMalformedRange},
		{name: "garbage start", header: "bytes=x-4", wantErr: errMalformedRange},
		{name: "garbage end", header: "bytes=0-y", wantErr: errMalformedRange},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := resolveRange(tc.header, size, tc.maxSpan)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("want %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.want {
				t.Fatalf("want %+v, got %+v", tc.want, got)
			}
		})
	}
}

func TestResolveRangeEmptyContent(t *testing.T) {
	// Для пустой записи любой диапазон неудовлетворим.
	if _, err := resolveRange("bytes=0-", 0, 0); !errors.Is(err, errRangeUnsatisfiable) {
		t.Fatalf("want errRangeUnsatisfiable, got %v", err)
	}
}
