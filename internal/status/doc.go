// Package status gathers the ambient information shown in the overlay's
// corner: current weather from the Open-Meteo API and host health (CPU,
// memory, temperature) from gopsutil. A Reporter polls both on separate
// cadences and pushes formatted lines to the overlay renderer.
package status
