// Package selection parses the user's answer to the track selection prompt.
//
// The answer is a whitespace-separated list of 1-based track numbers. An
// empty answer selects every track.
package selection
