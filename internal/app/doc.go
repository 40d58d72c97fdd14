// Package app wires the playground together: it selects a noise script,
// builds it through the scripting frontend, keeps the active graph behind
// the manager's atomic swap, resamples the heightmap after every
// successful reload, and serves the freshest frame over HTTP.
package app
