package acoustic

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// WriteModel writes h as a text definition that Parse reads back.
// States are numbered from 2 and the transition block carries the
// placeholder column that Parse drops.
func WriteModel(w io.Writer, h *HMM) error {
	bw := bufio.NewWriter(w)
	n := h.NumStates()
	fmt.Fprintf(bw, "~h %q\n", h.Name)
	fmt.Fprintln(bw, "<BEGINHMM>")
	fmt.Fprintf(bw, "<NUMSTATES> %d\n", n+2)
	for i, st := range h.States {
		fmt.Fprintf(bw, "<STATE> %d\n", i+2)
		if len(st.Mixture.Components) > 1 {
			fmt.Fprintf(bw, "<NUMMIXES> %d\n", len(st.Mixture.Components))
		}
		for k, c := range st.Mixture.Components {
			fmt.Fprintf(bw, "<MIXTURE> %d %s\n", k+1, formatFloat(c.Weight))
			if c.Mean != nil {
				fmt.Fprintf(bw, "<MEAN> %d\n %s\n", len(c.Mean), formatVector(c.Mean))
			}
			if c.Variance != nil {
				fmt.Fprintf(bw, "<VARIANCE> %d\n %s\n", len(c.Variance), formatVector(c.Variance))
			}
		}
	}
	writeTransitions(bw, h)
	fmt.Fprintln(bw, "<ENDHMM>")
	return bw.Flush()
}

// WriteTransitions writes only the TRANSP block of h.
func WriteTransitions(w io.Writer, h *HMM) error {
	bw := bufio.NewWriter(w)
	writeTransitions(bw, h)
	return bw.Flush()
}

// WriteModelSet writes every model of s in definition order.
func WriteModelSet(w io.Writer, s *ModelSet) error {
	for _, name := range s.Names() {
		h, _ := s.Get(name)
		if err := WriteModel(w, h); err != nil {
			return err
		}
	}
	return nil
}

func writeTransitions(bw *bufio.Writer, h *HMM) {
	side := h.Side()
	fmt.Fprintf(bw, "<TRANSP> %d\n", side+1)

	initial := make([]float64, 0, side+1)
	initial = append(initial, 0)
	initial = append(initial, h.Initial...)
	initial = append(initial, h.InitialExit)
	fmt.Fprintf(bw, " %s\n", formatVector(initial))

	row := make([]float64, side+1)
	for i := 0; i < side; i++ {
		row[0] = 0
		copy(row[1:], h.Trans.RawRowView(i))
		fmt.Fprintf(bw, " %s\n", formatVector(row))
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'e', -1, 64)
}

func formatVector(v []float64) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = formatFloat(x)
	}
	return strings.Join(parts, " ")
}
