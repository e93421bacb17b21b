package endpoints

// DefaultBaseURL is the Tor Metrics service root.
const DefaultBaseURL = "https://metrics.torproject.org"

// DefaultSpecs lists the built-in Tor Metrics datasets.
func DefaultSpecs() []Named {
	paths := []struct{ name, path string }{
		{"relay_users", "userstats-relay-country.csv"},
		{"bridge_users_by_country", "userstats-bridge-country.csv"},
		{"top_10_countries_by_censorship_events", "userstats-censorship-events.html"},
		{"relays_and_bridges", "networksize.csv"},
		{"relays_by_tor_versions", "versions.csv"},
		{"relays_by_platform", "platforms.csv"},
		{"total_bandwidth", "bandwidth.csv"},
		{"ad_cs_bandwidth", "bandwidth-flags.csv"},
		{"bandwidth_by_ip_version", "advbw-ipv6.csv"},
		{"tor_downloads", "torperf.csv"},
		{"tor_download_timeouts_and_failures", "torperf-failures.csv"},
		{"circuit_build_times", "onionperf-buildtimes.csv"},
		{"circuit_latency", "onionperf-latencies.csv"},
		{"throughput", "onionperf-throughput.csv"},
		{"all_versions_traffic", "hidserv-rend-relayed-cells.csv"},
		{"v2_traffic", "hidserv-dir-onions-seen.csv"},
		{"v3_traffic", "hidserv-dir-v3-onions-seen.csv"},
		{"tor_browser_updates_and_downloads", "webstats-tb.csv"},
		{"tor_browser_upd_and_dl_by_platform", "webstats-tb-platform.csv"},
	}

	out := make([]Named, 0, len(paths))
	for _, p := range paths {
		out = append(out, Named{Name: p.name, Spec: Spec{Path: p.path}})
	}
	return out
}
