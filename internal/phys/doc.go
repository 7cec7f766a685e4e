// Package phys is a generic explicit ODE integrator.
//
// A simulated entity implements [System] by exposing its state as [Var]
// cells and recomputing their derivative contributions on demand. A solver
// ([RK4] or [Euler]) drives the system through one step of size dt without
// knowing anything about its field layout: the stage-update rule is applied
// uniformly to every cell through the [Visitor] indirection.
//
// State quantities are generic over two types: the value type P and its
// derivative type D. D must form a linear space (Add, Scale, zero value as
// neutral element), but P only needs a Step operation composing the value
// with a scaled derivative. That asymmetry is what lets rotations, which are
// not a vector space, integrate through the same RK4 body as plain vectors.
package phys
