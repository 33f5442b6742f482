package elevation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecideNewWorkout(t *testing.T) {
	cases := []struct {
		name string
		in   Input
		want Decision
	}{
		{
			name: "gaps and configured service triggers resolution",
			in:   Input{IsNew: true, SupportsElevation: true, FileHasGaps: true, Preference: OpenElevation},
			want: Decision{Action: ActionResolve, Service: OpenElevation, Source: OpenElevation},
		},
		{
			name: "complete file elevation keeps the file",
			in:   Input{IsNew: true, SupportsElevation: true, FileHasGaps: false, Preference: OpenElevation},
			want: Decision{Action: ActionKeepFile, Source: SourceFile},
		},
		{
			name: "no configured service keeps the file",
			in:   Input{IsNew: true, SupportsElevation: true, FileHasGaps: true},
			want: Decision{Action: ActionKeepFile, Source: SourceFile},
		},
		{
			name: "sport without elevation never resolves",
			in:   Input{IsNew: true, SupportsElevation: false, FileHasGaps: true, Preference: OpenElevation},
			want: Decision{Action: ActionKeepFile, Source: SourceFile},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Decide(tc.in))
		})
	}
}

func TestDecideRefresh(t *testing.T) {
	cases := []struct {
		name string
		in   Input
		want Decision
	}{
		{
			name: "explicit reset to file wins over everything",
			in: Input{
				PriorSource: OpenElevation, ExplicitChange: SourceFile,
				Preference: OpenElevation, CacheComplete: true, FetchOnRefresh: true,
			},
			want: Decision{Action: ActionKeepFile, Source: SourceFile},
		},
		{
			name: "explicit switch to a different service resolves it",
			in:   Input{PriorSource: SourceFile, ExplicitChange: "other-service", Preference: OpenElevation},
			want: Decision{Action: ActionResolve, Service: "other-service", Source: "other-service"},
		},
		{
			name: "explicit change to the current source is a no-op",
			in: Input{
				PriorSource: OpenElevation, ExplicitChange: OpenElevation,
				Preference: OpenElevation, CacheComplete: true,
			},
			want: Decision{Action: ActionReuseCache, Source: OpenElevation},
		},
		{
			name: "prior file source stays on the file",
			in:   Input{PriorSource: SourceFile, Preference: OpenElevation, FetchOnRefresh: true},
			want: Decision{Action: ActionKeepFile, Source: SourceFile},
		},
		{
			name: "complete cache with matching preference is reused",
			in:   Input{PriorSource: OpenElevation, Preference: OpenElevation, CacheComplete: true, FetchOnRefresh: true},
			want: Decision{Action: ActionReuseCache, Source: OpenElevation},
		},
		{
			name: "fetch disabled reuses even an incomplete cache",
			in:   Input{PriorSource: OpenElevation, Preference: OpenElevation, CacheComplete: false, FetchOnRefresh: false},
			want: Decision{Action: ActionReuseCache, Source: OpenElevation},
		},
		{
			name: "fetch enabled with incomplete cache re-resolves",
			in:   Input{PriorSource: OpenElevation, Preference: OpenElevation, CacheComplete: false, FetchOnRefresh: true},
			want: Decision{Action: ActionResolve, Service: OpenElevation, Source: OpenElevation},
		},
		{
			name: "service source without any configured service degrades to file",
			in:   Input{PriorSource: OpenElevation, Preference: "", CacheComplete: false, FetchOnRefresh: true},
			want: Decision{Action: ActionKeepFile, Source: SourceFile},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Decide(tc.in))
		})
	}
}
