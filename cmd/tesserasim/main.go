// Command tesserasim drives the tessera transaction pipeline through two
// of the literal scenarios (S1 and S3) against fake backends/generators/views, printing each
// transaction's observable state. It exists to let a reader watch the
// pipeline step-by-step without a real compositor, the tessera analogue
// of willow's demos/ropegarden.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/quietfjord/tessera"
	"github.com/quietfjord/tessera/harness"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	fmt.Println("=== S1: single output, tag change ===")
	runS1(logger)

	fmt.Println()
	fmt.Println("=== S3: hotplug down to zero then up ===")
	runS3(logger)
}

func runS1(logger *slog.Logger) {
	root := tessera.NewRoot(tessera.Config{Logger: logger})
	w := harness.NewWorld(root)
	w.AddSeat()

	one := uint32(0b01)
	two := uint32(0b10)

	steps, err := harness.ParseScript([]byte(`
steps:
  - action: add_output
    output: A
    width: 1920
    height: 1080
  - action: add_view
    view: "1"
  - action: set_view_output
    view: "1"
    output: A
  - action: apply_pending
  - action: layout_done
    output: A
  - action: ack_configure
    view: "1"
`))
	if err != nil {
		panic(err)
	}
	if err := w.Run(steps); err != nil {
		panic(err)
	}

	a := w.Output("A")
	a.Pending.Tags = two
	v := w.View("1")
	v.Pending.Tags = two
	w.Impl("1").Dirty()
	root.ApplyPending()
	w.Generator("A").Resolve()
	w.Impl("1").Ack()

	fmt.Printf("output A tags: %02b (want %02b)\n", a.Current.Tags, two)
	fmt.Printf("view 1 tags: %02b (want %02b)\n", v.Current.Tags, two)
	fmt.Printf("view 1 tree enabled: %v\n", v.Tree.Enabled)
	_ = one
}

func runS3(logger *slog.Logger) {
	root := tessera.NewRoot(tessera.Config{Logger: logger})
	w := harness.NewWorld(root)
	w.AddSeat()

	tags := uint32(0b100)

	steps, err := harness.ParseScript([]byte(`
steps:
  - action: add_output
    output: A
    width: 1920
    height: 1080
  - action: add_output
    output: B
    width: 1280
    height: 720
  - action: add_view
    view: "1"
`))
	if err != nil {
		panic(err)
	}
	if err := w.Run(steps); err != nil {
		panic(err)
	}
	v := w.View("1")
	v.SetPendingOutput(w.Output("B"))
	v.Pending.Tags = tags
	root.ApplyPending()
	w.Generator("A").Resolve()
	w.Generator("B").Resolve()
	w.Impl("1").Ack()

	fmt.Printf("view 1 output after map: %p (B=%p)\n", v.Current.Output, w.Output("B"))

	root.RemoveOutput(w.Output("B"))
	fmt.Printf("view 1 output after B removed: %p (A=%p)\n", v.Pending.Output, w.Output("A"))

	root.RemoveOutput(w.Output("A"))
	fmt.Printf("view 1 output after A removed: %v (want <nil>)\n", v.Pending.Output)
}
