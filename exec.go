package spritemap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/esimov/spritemap/utils"
)

// Ops holds the console options of a command line run.
type Ops struct {
	// Out receives the status messages, usually os.Stderr.
	Out io.Writer
	// Spinner enables the progress indicator.
	Spinner bool
}

// The status messages are built on demand, so they honor utils.Colored.
func buildMsg() string {
	return fmt.Sprintf("%s %s",
		utils.DecorateText("⚡ SPRITEMAP", utils.StatusMessage),
		utils.DecorateText("⇢ building spritemaps...", utils.DefaultMessage),
	)
}

func stageMsg(stage string) string {
	return fmt.Sprintf("%s %s",
		utils.DecorateText("⚡ SPRITEMAP", utils.StatusMessage),
		utils.DecorateText("⇢ "+stage+"...", utils.DefaultMessage),
	)
}

func successMsg() string {
	return fmt.Sprintf("%s %s %s",
		utils.DecorateText("⚡ SPRITEMAP", utils.StatusMessage),
		utils.DecorateText("⇢", utils.DefaultMessage),
		utils.DecorateText("the spritemaps have been generated successfully ✔", utils.SuccessMessage),
	)
}

func errorMsg() string {
	return fmt.Sprintf("%s %s %s",
		utils.DecorateText("⚡ SPRITEMAP", utils.StatusMessage),
		utils.DecorateText("building spritemaps failed...", utils.DefaultMessage),
		utils.DecorateText("✘", utils.ErrorMessage),
	)
}

// Execute runs the processor while reporting its progress on op.Out.
// The outputs of the scale factors which succeeded are listed even when another failed.
func (p *Processor) Execute(ctx context.Context, op *Ops) error {
	now := time.Now()

	run := *p
	var spinner *utils.Spinner
	if op.Spinner {
		spinner = utils.NewSpinner(op.Out, buildMsg(), time.Millisecond*80, true)
		run.Progress = func(stage string) {
			spinner.SetMessage(stageMsg(stage))
			if p.Progress != nil {
				p.Progress(stage)
			}
		}
		spinner.Start()
	}

	outputs, err := run.Run(ctx)
	if spinner != nil {
		if err != nil {
			spinner.StopMsg = errorMsg()
		} else {
			spinner.StopMsg = successMsg()
		}
		spinner.Stop()
	}

	for _, out := range outputs {
		op.printOpStatus(out)
	}
	if err != nil {
		op.printErrors(err)
		return err
	}
	fmt.Fprintf(op.Out, "\nExecution time: %s\n",
		utils.DecorateText(utils.FormatTime(time.Since(now)), utils.SuccessMessage),
	)
	return nil
}

// printOpStatus displays the files written for a scale factor.
func (op *Ops) printOpStatus(out Output) {
	fmt.Fprintf(op.Out, "\n%s spritemap with %d sprites has been saved as: %s %s\n",
		utils.DecorateText(out.Label, utils.StatusMessage),
		out.Sprites,
		utils.DecorateText(filepath.Base(out.Image), utils.SuccessMessage),
		utils.DecorateText(filepath.Base(out.Metadata), utils.SuccessMessage),
	)
}

// printErrors displays every failure joined in err on its own line.
func (op *Ops) printErrors(err error) {
	errs := []error{err}
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		errs = j.Unwrap()
	}
	for _, e := range errs {
		reason := e.Error()
		var se *ScaleError
		if errors.As(e, &se) {
			reason = fmt.Sprintf("%s: %v", se.Label, se.Err)
		}
		fmt.Fprintf(op.Out, "%s%s",
			utils.DecorateText("\nError building the spritemap", utils.ErrorMessage),
			utils.DecorateText(fmt.Sprintf("\n\tReason: %s\n", reason), utils.DefaultMessage),
		)
	}
}
