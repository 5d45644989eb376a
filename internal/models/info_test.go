package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLegacyInfo(t *testing.T) {
	tests := []struct {
		name   string
		packed string
		want   Info
	}{
		{name: "plain address", packed: "Jalan Ampang", want: Info{Address: "Jalan Ampang"}},
		{name: "empty", packed: "", want: Info{}},
		{
			name:   "address and description",
			packed: "Jalan Ampang|||DESCRIPTION|||Back door",
			want:   Info{Address: "Jalan Ampang", Description: "Back door"},
		},
		{
			name:   "all parts",
			packed: "Jalan Ampang|||DESCRIPTION|||Back door|||URL|||https://maps.example.com/x",
			want:   Info{Address: "Jalan Ampang", Description: "Back door", URL: "https://maps.example.com/x"},
		},
		{
			name:   "url without description",
			packed: "Jalan Ampang|||URL|||https://maps.example.com/x",
			want:   Info{Address: "Jalan Ampang", URL: "https://maps.example.com/x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLegacyInfo(tt.packed))
		})
	}
}

func TestInfo_LegacyRoundTrip(t *testing.T) {
	infos := []Info{
		{},
		{Address: "only address"},
		{Address: "a", Description: "d"},
		{Address: "a", Description: "d", URL: "https://x.example"},
		{Description: "d"},
		{URL: "https://x.example"},
	}
	for _, info := range infos {
		assert.Equal(t, info, ParseLegacyInfo(info.Legacy()), "packed=%q", info.Legacy())
	}
}

func TestInfo_ScanValue(t *testing.T) {
	in := Info{Address: "a", Description: "d", URL: "https://x.example"}
	v, err := in.Value()
	require.NoError(t, err)

	var out Info
	require.NoError(t, out.Scan([]byte(v.(string))))
	assert.Equal(t, in, out)

	require.NoError(t, out.Scan(nil))
	assert.True(t, out.IsZero())

	assert.Error(t, out.Scan(42))
}

func TestInfo_UnmarshalJSON(t *testing.T) {
	var fromString Info
	require.NoError(t, json.Unmarshal([]byte(`"Jalan 1|||DESCRIPTION|||Back door"`), &fromString))
	assert.Equal(t, Info{Address: "Jalan 1", Description: "Back door"}, fromString)

	var fromObject Info
	require.NoError(t, json.Unmarshal([]byte(`{"address":"Jalan 2","url":"https://maps.test/x"}`), &fromObject))
	assert.Equal(t, Info{Address: "Jalan 2", URL: "https://maps.test/x"}, fromObject)

	var bad Info
	assert.Error(t, json.Unmarshal([]byte(`42`), &bad))
}
