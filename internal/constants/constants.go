// Package constants defines the fixed on-device paths and property keys
// shared by the perfpack commands.
package constants

const (
	// DataDir is the directory the profiler writes recording files into,
	// relative to the app's working directory when running in its context.
	DataDir = "simpleperf_data"

	// DefaultOutputFile is the default archive path for api-collect.
	DefaultOutputFile = "simpleperf_data.zip"

	// TempFilePrefix marks transient files the profiler may still be
	// writing; they are never collected.
	TempFilePrefix = "TemporaryFile-"

	// TracepointEventsPath is where api-prepare materializes the tracepoint
	// list for later consumption inside app contexts that cannot read
	// tracefs themselves.
	TracepointEventsPath = "/data/local/tmp/tracepoint_events"

	// ProfileAppUIDProp and ProfileAppExpirationProp together form a durable
	// recording grant: the uid of the allowed app and the absolute expiration
	// time in seconds. Consumers must treat a missing half as "no grant".
	ProfileAppUIDProp        = "persist.simpleperf.profile_app_uid"
	ProfileAppExpirationProp = "persist.simpleperf.profile_app_expiration_time"

	// PerfHardenProp gates kernel perf events globally on Android.
	PerfHardenProp = "security.perf_harden"

	// MinDurableGrantVersion is the first Android release with the
	// persist-property grant mechanism.
	MinDurableGrantVersion = 13
)
