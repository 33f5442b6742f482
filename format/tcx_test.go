package format

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucasjlepore/track-engine/track"
)

const tcxFixture = `<?xml version="1.0" encoding="UTF-8"?>
<TrainingCenterDatabase xmlns="http://www.garmin.com/xmlschemas/TrainingCenterDatabase/v2">
  <Activities>
    <Activity Sport="Biking">
      <Lap StartTime="2021-06-01T10:00:00Z">
        <Calories>120</Calories>
        <Track>
          <Trackpoint>
            <Time>2021-06-01T10:00:00Z</Time>
            <Position><LatitudeDegrees>44.68095</LatitudeDegrees><LongitudeDegrees>6.07367</LongitudeDegrees></Position>
            <AltitudeMeters>998.0</AltitudeMeters>
            <HeartRateBpm><Value>92</Value></HeartRateBpm>
            <Cadence>75</Cadence>
            <Extensions><TPX><Watts>180</Watts></TPX></Extensions>
          </Trackpoint>
          <Trackpoint>
            <Time>2021-06-01T10:00:05Z</Time>
          </Trackpoint>
          <Trackpoint>
            <Time>2021-06-01T10:00:10Z</Time>
            <Position><LatitudeDegrees>44.68084</LatitudeDegrees><LongitudeDegrees>6.07364</LongitudeDegrees></Position>
            <AltitudeMeters>996.0</AltitudeMeters>
            <HeartRateBpm><Value>96</Value></HeartRateBpm>
            <Cadence>78</Cadence>
          </Trackpoint>
        </Track>
      </Lap>
      <Lap StartTime="2021-06-01T10:05:00Z">
        <Calories>40</Calories>
        <Track>
          <Trackpoint>
            <Time>2021-06-01T10:05:00Z</Time>
            <Position><LatitudeDegrees>44.68050</LatitudeDegrees><LongitudeDegrees>6.07350</LongitudeDegrees></Position>
          </Trackpoint>
          <Trackpoint>
            <Time>2021-06-01T10:05:05Z</Time>
            <Position><LatitudeDegrees>44.68040</LatitudeDegrees><LongitudeDegrees>6.07348</LongitudeDegrees></Position>
          </Trackpoint>
        </Track>
      </Lap>
      <Creator><Name>Edge 530</Name></Creator>
    </Activity>
  </Activities>
</TrainingCenterDatabase>`

func TestParseTCX(t *testing.T) {
	tr, err := Parse([]byte(tcxFixture), TCX)
	require.NoError(t, err)

	// One segment per activity: both laps flatten into a single segment.
	require.Len(t, tr.Segments, 1)
	// The point without a Position is skipped.
	require.Len(t, tr.Segments[0].Points, 4)

	assert.Equal(t, "Edge 530", tr.Creator)
	assert.Equal(t, 160, tr.Calories)

	first := tr.Segments[0].Points[0]
	require.NotNil(t, first.HeartRate)
	assert.Equal(t, 92, *first.HeartRate)
	require.NotNil(t, first.Cadence)
	assert.Equal(t, 75, *first.Cadence)
	require.NotNil(t, first.Power)
	assert.Equal(t, 180, *first.Power)
	require.NotNil(t, first.Elevation)
	assert.Equal(t, 998.0, *first.Elevation)
}

func TestParseTCXRunCadenceExtension(t *testing.T) {
	const fixture = `<?xml version="1.0"?>
<TrainingCenterDatabase>
  <Activities>
    <Activity Sport="Running">
      <Lap>
        <Track>
          <Trackpoint>
            <Time>2021-06-01T10:00:00Z</Time>
            <Position><LatitudeDegrees>44.68095</LatitudeDegrees><LongitudeDegrees>6.07367</LongitudeDegrees></Position>
            <Extensions><TPX><RunCadence>88</RunCadence></TPX></Extensions>
          </Trackpoint>
          <Trackpoint>
            <Time>2021-06-01T10:00:05Z</Time>
            <Position><LatitudeDegrees>44.68084</LatitudeDegrees><LongitudeDegrees>6.07364</LongitudeDegrees></Position>
            <Extensions><TPX><RunCadence>90</RunCadence></TPX></Extensions>
          </Trackpoint>
        </Track>
      </Lap>
    </Activity>
  </Activities>
</TrainingCenterDatabase>`
	tr, err := Parse([]byte(fixture), TCX)
	require.NoError(t, err)
	require.NotNil(t, tr.Segments[0].Points[0].Cadence)
	assert.Equal(t, 88, *tr.Segments[0].Points[0].Cadence)
}

func TestParseTCXFractionalSecondsTruncated(t *testing.T) {
	const fixture = `<?xml version="1.0"?>
<TrainingCenterDatabase>
  <Activities>
    <Activity Sport="Running">
      <Lap>
        <Track>
          <Trackpoint>
            <Time>2024-05-01T08:00:00.600Z</Time>
            <Position><LatitudeDegrees>44.68095</LatitudeDegrees><LongitudeDegrees>6.07367</LongitudeDegrees></Position>
          </Trackpoint>
          <Trackpoint>
            <Time>2024-05-01T08:00:05.400Z</Time>
            <Position><LatitudeDegrees>44.68084</LatitudeDegrees><LongitudeDegrees>6.07364</LongitudeDegrees></Position>
          </Trackpoint>
        </Track>
      </Lap>
    </Activity>
  </Activities>
</TrainingCenterDatabase>`
	tr, err := Parse([]byte(fixture), TCX)
	require.NoError(t, err)

	for _, p := range tr.Segments[0].Points {
		assert.Zero(t, p.Time.Nanosecond())
	}
	assert.Equal(t, time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC), tr.Segments[0].Points[0].Time)
	assert.Equal(t, time.Date(2024, 5, 1, 8, 0, 5, 0, time.UTC), tr.Segments[0].Points[1].Time)
}

func TestParseTCXNoActivities(t *testing.T) {
	const fixture = `<?xml version="1.0"?><TrainingCenterDatabase></TrainingCenterDatabase>`
	_, err := Parse([]byte(fixture), TCX)
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Contains(t, pe.Reason, "no activities")
}

func TestParseTCXActivityWithoutPoints(t *testing.T) {
	const fixture = `<?xml version="1.0"?>
<TrainingCenterDatabase>
  <Activities>
    <Activity Sport="Biking"><Lap><Calories>10</Calories></Lap></Activity>
  </Activities>
</TrainingCenterDatabase>`
	_, err := Parse([]byte(fixture), TCX)
	var nve *track.NoValidSegmentsError
	require.True(t, errors.As(err, &nve))
}
