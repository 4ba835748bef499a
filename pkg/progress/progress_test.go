package progress

import "testing"

func TestToFuncComputesPercentAndStage(t *testing.T) {
	ch := make(chan Update, 1)
	fn := ToFunc("job-1", NewChannelReporter(ch))

	fn(1, 4, "transcribe", "starting transcription")

	update := <-ch
	if update.JobID != "job-1" {
		t.Errorf("JobID = %q, want job-1", update.JobID)
	}
	if update.Stage != StageTranscribe {
		t.Errorf("Stage = %q, want %q", update.Stage, StageTranscribe)
	}
	if update.Percent != 25 {
		t.Errorf("Percent = %v, want 25", update.Percent)
	}
	if update.Message != "starting transcription" {
		t.Errorf("Message = %q, want starting transcription", update.Message)
	}
}

func TestToFuncZeroTotalStepsYieldsZeroPercent(t *testing.T) {
	ch := make(chan Update, 1)
	fn := ToFunc("job-1", NewChannelReporter(ch))
	fn(0, 0, "complete", "done")

	update := <-ch
	if update.Percent != 0 {
		t.Errorf("Percent = %v, want 0 when totalSteps is 0", update.Percent)
	}
}

func TestToFuncNilReporterDoesNotPanic(t *testing.T) {
	fn := ToFunc("job-1", nil)
	fn(1, 1, "complete", "done") // must not panic
}

func TestChannelReporterDropsOnFullChannel(t *testing.T) {
	ch := make(chan Update) // unbuffered, nothing reading
	reporter := NewChannelReporter(ch)
	reporter.Report(Update{JobID: "job-1"}) // must not block
}

func TestMultiReporterFansOutToAll(t *testing.T) {
	chA := make(chan Update, 1)
	chB := make(chan Update, 1)
	multi := NewMultiReporter(NewChannelReporter(chA))
	multi.Add(NewChannelReporter(chB))

	multi.Report(Update{JobID: "job-1"})

	if (<-chA).JobID != "job-1" {
		t.Errorf("reporter A did not receive the update")
	}
	if (<-chB).JobID != "job-1" {
		t.Errorf("reporter B did not receive the update")
	}
}

func TestNoopReporterDiscardsSilently(t *testing.T) {
	var r Reporter = NoopReporter{}
	r.Report(Update{JobID: "job-1"}) // must not panic
}
