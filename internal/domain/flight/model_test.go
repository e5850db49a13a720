package flight

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		params  SearchParams
		wantErr bool
	}{
		{name: "valid", params: SearchParams{Origin: "JFK", Destination: "LAX", DepartureDate: "2025-03-14"}},
		{name: "lowercase is normalized first", params: SearchParams{Origin: " jfk", Destination: "lax ", DepartureDate: "2025-03-14"}},
		{name: "short origin", params: SearchParams{Origin: "JF", Destination: "LAX", DepartureDate: "2025-03-14"}, wantErr: true},
		{name: "numeric destination", params: SearchParams{Origin: "JFK", Destination: "L4X", DepartureDate: "2025-03-14"}, wantErr: true},
		{name: "bad date", params: SearchParams{Origin: "JFK", Destination: "LAX", DepartureDate: "14/03/2025"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Normalized().Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidParams))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestFilterState_Normalized(t *testing.T) {
	tests := []struct {
		name string
		in   FilterState
		want FilterState
	}{
		{
			name: "zero price becomes the unbounded default",
			in:   FilterState{},
			want: FilterState{MaxPrice: MaxPrice},
		},
		{
			name: "price clamped to the lower bound",
			in:   FilterState{MaxPrice: 20},
			want: FilterState{MaxPrice: MinPrice},
		},
		{
			name: "price clamped to the upper bound",
			in:   FilterState{MaxPrice: 9000},
			want: FilterState{MaxPrice: MaxPrice},
		},
		{
			name: "airlines upper-cased and de-duplicated",
			in:   FilterState{MaxPrice: 400, Airlines: []string{"aa", "DL", "AA", " "}, CabinClass: "business"},
			want: FilterState{MaxPrice: 400, Airlines: []string{"AA", "DL"}, CabinClass: CabinBusiness},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.in.Normalized()); diff != "" {
				t.Errorf("Differences: (-want,+got)\n%s", diff)
			}
		})
	}
}

func TestSearchError_WrapsCause(t *testing.T) {
	cause := &AuthError{Err: errors.New("401")}
	err := error(&SearchError{Params: SearchParams{Origin: "JFK", Destination: "LAX", DepartureDate: "2025-03-14"}, Err: cause})

	var authErr *AuthError
	require.True(t, errors.As(err, &authErr))

	var searchErr *SearchError
	require.True(t, errors.As(err, &searchErr))
	assert.Equal(t, SearchFailedMessage, searchErr.UserMessage())
	assert.Contains(t, err.Error(), "JFK-LAX")
}
