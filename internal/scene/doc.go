// Package scene provides the simulated worlds of the playground.
//
// Each scene implements [phys.System], exposing its state cells to the
// solver, and [sim.Sampler]-compatible Sample/Labels methods for recording
// and plotting:
//
//   - [FreeFall]: point mass under constant acceleration
//   - [Oscillator]: scalar harmonic oscillator
//   - [Balls]: 2D ball pit with walls, contacts and drag attraction
//   - [Drive]: terrain + vehicle composite
package scene
