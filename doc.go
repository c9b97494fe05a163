// Package arixtree renders a decorative Christmas tree made of thousands of
// particles that morph between a scattered sphere cloud and a layered pine
// for [Ebitengine].
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and game
// loop for you:
//
//	if err := arixtree.Run(arixtree.DefaultOptions(), nil); err != nil {
//		log.Fatal(err)
//	}
//
// For full control, build a [Scene] and drive it yourself:
//
//	scene := arixtree.NewScene()
//	scene.Leaves.Attach(myLeafSink)
//	// ... once per frame:
//	scene.Update(dt)
//
// # Particles
//
// [Generate] lays out one group of [ParticleDescriptor]s. Each descriptor
// carries two poses: a tree pose on a phyllotaxis or spiral layout and a
// scatter pose sampled uniformly on a sphere of radius [ScatterRadius].
// Descriptors are computed once and never change.
//
// # Animation
//
// The [Animator] keeps a single progress value in [0, 1]. Every frame it is
// damped toward the target formation chosen by the [Controller], eased with
// [Smoothstep], and used to blend every particle between its two poses.
//
// # Rendering
//
// The animator writes transforms into [InstanceSink]s and never touches a
// rendering engine. [Renderer] is the Ebitengine sink; the term subpackage
// draws the same scene into a terminal with tcell.
//
// [Ebitengine]: https://ebitengine.org
package arixtree
