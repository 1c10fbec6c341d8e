package utils

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Progress renders a single-line console progress bar for sequential batch
// runs. It is not safe for concurrent use; the collectors are strictly
// sequential so none is needed.
type Progress struct {
	total    int
	done     int
	ok       int
	fail     int
	imgSaved int
	imgFail  int
	start    time.Time
	stage    string
}

func NewProgress(total int) *Progress {
	return &Progress{total: total, start: time.Now()}
}

// SetStage updates the label shown after the bar and redraws.
func (p *Progress) SetStage(stage string) {
	p.stage = stage
	p.render()
}

// StepDone records one finished unit and redraws.
func (p *Progress) StepDone(ok bool) {
	p.done++
	if ok {
		p.ok++
	} else {
		p.fail++
	}
	p.render()
}

// AddImage records one image download attempt.
func (p *Progress) AddImage(ok bool) {
	if ok {
		p.imgSaved++
	} else {
		p.imgFail++
	}
	p.render()
}

// Finish terminates the bar line so later log output starts clean.
func (p *Progress) Finish() {
	p.render()
	fmt.Fprintln(os.Stdout)
}

func (p *Progress) render() {
	width := 26
	ratio := 0.0
	if p.total > 0 {
		ratio = float64(p.done) / float64(p.total)
	}
	filled := int(ratio * float64(width))
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	elapsed := time.Since(p.start).Round(time.Second)
	fmt.Fprintf(os.Stdout, "\r[%s] %d/%d ok:%d fail:%d img:%d/%d %s | %s",
		bar, p.done, p.total, p.ok, p.fail, p.imgSaved, p.imgSaved+p.imgFail, elapsed, p.stage)
}
