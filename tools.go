package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"

	"sidbench/emu"
	"sidbench/hw/pdm"
	"sidbench/hw/tt6581"
)

// convertWAV decodes the packed PDM capture in and writes it as a
// normalized WAV file.
func convertWAV(t emu.TimingConfig, in, out string) error {
	f, err := os.Open(in)
	if err != nil {
		return err
	}
	defer f.Close()

	samples, err := pdm.Decode(f, float64(t.DACRate), float64(t.SampleRate))
	if err != nil {
		return errors.Wrapf(err, "decoding %s", in)
	}
	pdm.Normalize(samples)

	if err := writeFile(out, func(w io.Writer) error {
		return pdm.WriteWAV(w, samples, uint32(t.SampleRate))
	}); err != nil {
		return err
	}
	fmt.Printf("%s: %d samples (%.2fs at %d Hz)\n", out, len(samples),
		float64(len(samples))/float64(t.SampleRate), t.SampleRate)
	return nil
}

var spiChecks = []struct {
	addr, data uint8
}{
	{tt6581.V1Base + tt6581.RegPwLo, 0xFF},
	{tt6581.V1Base + tt6581.RegAD, 0xAA},
	{tt6581.V2Base + tt6581.RegFreqLo, 0x55},
	{tt6581.FiltBase + tt6581.RegVolume, 0x99},
	{tt6581.V3Base + tt6581.RegPwHi, 0x0F},
}

// spiCheck writes test values to the model registers over SPI and reads
// them back, reporting each transfer to w.
func spiCheck(w io.Writer, cfg emu.Config) error {
	model := newModel(cfg.Timing)
	bench, err := emu.NewBench(model, cfg.Timing, cfg.SPI.Timing(false))
	if err != nil {
		return err
	}
	if err := bench.Reset(); err != nil {
		return err
	}

	enc := bench.Encoder()
	enc.Tap(func(addr, data uint8) {
		fmt.Fprintf(w, "[Write] addr 0x%02X data 0x%02X (tick %d)\n", addr, data, bench.Clock().Ticks())
	})

	failed := 0
	for _, c := range spiChecks {
		if err := enc.Write(c.addr, c.data); err != nil {
			return err
		}
		got, err := enc.Read(c.addr)
		if err != nil {
			return err
		}

		status := "PASS"
		if got != c.data {
			status = fmt.Sprintf("FAIL (want 0x%02X)", c.data)
			failed++
		}
		fmt.Fprintf(w, "[Read ] addr 0x%02X data 0x%02X ... %s\n", c.addr, got, status)
	}

	if err := bench.Clock().TickBatch(50); err != nil {
		return err
	}
	model.Final()

	if failed != 0 {
		return errors.Errorf("%d of %d register checks failed", failed, len(spiChecks))
	}
	return nil
}
