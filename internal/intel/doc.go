// Auspex - Security Log Analytics and Threat Detection
// Copyright 2026 Sam V. (samvasq)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/samvasq/auspex

/*
Package intel maintains the IP blacklist consulted during detection.

The blacklist is the union of a static set from configuration and an
optional feed set refreshed by the Updater. Addresses are stored in
canonical netip form, so "2001:DB8::1" in a feed matches "2001:db8::1"
in an event. Feed refreshes replace the feed set wholesale; the static
set is never touched.

The Updater periodically fetches a plaintext feed (one address per
line, '#' starts a comment) with retry and exponential backoff, and
skips the merge when the feed content hash is unchanged.
*/
package intel
