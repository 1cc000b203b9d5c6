// Package scan owns the fixed channel plan and the scan scheduling logic:
// which frequency is sampled next, when to hop, and how sampler outcomes
// map back onto channels.
package scan

// NumChannels is the size of the fixed channel plan. The plan is compile-time
// constant and never mutated at runtime.
const NumChannels = 8

// SamplesPerHop is the number of completed samples taken on a channel before
// the cursor hops to the next one.
const SamplesPerHop = 3

// Channel describes a single entry of the channel plan.
type Channel struct {
	Index     int     `json:"index"`
	CenterMHz float64 `json:"centerMHz"`
	Label     string  `json:"label"`
	Category  string  `json:"category"`
}

var channels = [NumChannels]Channel{
	{0, 903.9, "LoRaWAN Ch0", "lorawan"},
	{1, 906.3, "LoRaWAN Uplink", "lorawan"},
	{2, 909.1, "LoRaWAN Mid", "lorawan"},
	{3, 911.9, "Meshtastic", "meshtastic"},
	{4, 914.9, "LoRaWAN", "lorawan"},
	{5, 917.5, "Amazon Sidewalk", "sidewalk"},
	{6, 920.1, "LoRaWAN", "lorawan"},
	{7, 922.9, "LoRaWAN Downlink", "lorawan"},
}

// Channels returns the fixed channel plan in scan order.
func Channels() [NumChannels]Channel {
	return channels
}

// ChannelAt returns the plan entry for the given index. It panics on an
// out-of-range index since channel indices are produced only by the cursor.
func ChannelAt(index int) Channel {
	return channels[index]
}
