// Package gauge samples host CPU usage for the admin metrics surface.
package gauge
