// mutate applies ransomware-like mutations to .txt files under a target
// directory. It exists only to exercise a running detector by hand; nothing
// in the detection path imports it.
//
// Usage:
//
//	mutate -dir ./test_text_files -mode encrypt-sim
//
// Modes: non-ascii, gibberish-line, reverse-scramble, scramble-line,
// encrypt-sim, shrink, all.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
)

const gibberish = "q6oJKN8GIaRCEkP7iY46boHjWSfTrx2qHeWLcn71o6TkS9Ey"

func main() {
	dir := flag.String("dir", ".", "directory holding the target .txt files")
	mode := flag.String("mode", "all", "mutation to apply")
	flag.Parse()

	targets, err := filepath.Glob(filepath.Join(*dir, "*.txt"))
	if err != nil || len(targets) == 0 {
		fmt.Fprintf(os.Stderr, "no .txt files under %s\n", *dir)
		os.Exit(1)
	}

	m := &mutator{targets: targets}

	var run func() error
	switch *mode {
	case "non-ascii":
		run = m.corruptToNonASCII
	case "gibberish-line":
		run = m.gibberishLine
	case "reverse-scramble":
		run = m.reverseAndScramble
	case "scramble-line":
		run = m.scrambleOneLine
	case "encrypt-sim":
		run = m.encryptSimulation
	case "shrink":
		run = m.shrink
	case "all":
		run = m.runAll
	default:
		fmt.Fprintf(os.Stderr, "unknown mode %q\n", *mode)
		os.Exit(1)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "mutate: %v\n", err)
		os.Exit(1)
	}
}

type mutator struct {
	targets []string
}

// sample picks up to n distinct targets.
func (m *mutator) sample(n int) []string {
	idx := rand.Perm(len(m.targets))
	if n > len(idx) {
		n = len(idx)
	}
	out := make([]string, 0, n)
	for _, i := range idx[:n] {
		out = append(out, m.targets[i])
	}
	return out
}

// corruptToNonASCII replaces file content with bytes in [128, 255].
func (m *mutator) corruptToNonASCII() error {
	for _, f := range m.sample(2) {
		buf := make([]byte, 300)
		for i := range buf {
			buf[i] = byte(128 + rand.Intn(128))
		}
		if err := os.WriteFile(f, buf, 0o644); err != nil {
			return err
		}
		fmt.Printf("[MUTATE] Non-ASCII corruption applied to %s\n", filepath.Base(f))
	}
	return nil
}

// gibberishLine swaps one random line for encrypted-looking text.
func (m *mutator) gibberishLine() error {
	for _, f := range m.sample(2) {
		lines, err := readLines(f)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			continue
		}
		i := rand.Intn(len(lines))
		lines[i] = gibberish
		if err := writeLines(f, lines); err != nil {
			return err
		}
		fmt.Printf("[MUTATE] Encrypted-like line inserted in %s (line %d)\n", filepath.Base(f), i)
	}
	return nil
}

// reverseAndScramble mirrors every word and shuffles one random line.
func (m *mutator) reverseAndScramble() error {
	for _, f := range m.sample(2) {
		lines, err := readLines(f)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			continue
		}
		for i, line := range lines {
			words := strings.Fields(line)
			for j, w := range words {
				words[j] = reverse(w)
			}
			lines[i] = strings.Join(words, " ")
		}
		i := rand.Intn(len(lines))
		words := strings.Fields(lines[i])
		rand.Shuffle(len(words), func(a, b int) { words[a], words[b] = words[b], words[a] })
		lines[i] = strings.Join(words, " ")
		if err := writeLines(f, lines); err != nil {
			return err
		}
		fmt.Printf("[MUTATE] Reversed & scrambled applied to %s\n", filepath.Base(f))
	}
	return nil
}

// scrambleOneLine shuffles the characters of one random line.
func (m *mutator) scrambleOneLine() error {
	for _, f := range m.sample(1) {
		lines, err := readLines(f)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			continue
		}
		i := rand.Intn(len(lines))
		chars := []byte(lines[i])
		rand.Shuffle(len(chars), func(a, b int) { chars[a], chars[b] = chars[b], chars[a] })
		lines[i] = string(chars)
		if err := writeLines(f, lines); err != nil {
			return err
		}
		fmt.Printf("[MUTATE] Scrambled one line in %s (line %d)\n", filepath.Base(f), i)
	}
	return nil
}

// encryptSimulation overwrites one file with uniformly random bytes, the
// statistical signature of real ciphertext.
func (m *mutator) encryptSimulation() error {
	for _, f := range m.sample(1) {
		info, err := os.Stat(f)
		if err != nil {
			return err
		}
		size := info.Size()
		if size == 0 {
			size = 256
		}
		buf := make([]byte, size)
		for i := range buf {
			buf[i] = byte(rand.Intn(256))
		}
		if err := os.WriteFile(f, buf, 0o644); err != nil {
			return err
		}
		fmt.Printf("[MUTATE] Encryption simulated on %s\n", filepath.Base(f))
	}
	return nil
}

// shrink truncates one file to under half its size.
func (m *mutator) shrink() error {
	for _, f := range m.sample(1) {
		data, err := os.ReadFile(f)
		if err != nil {
			return err
		}
		if len(data) < 4 {
			continue
		}
		if err := os.WriteFile(f, data[:len(data)/3], 0o644); err != nil {
			return err
		}
		fmt.Printf("[MUTATE] Shrunk %s to a third\n", filepath.Base(f))
	}
	return nil
}

func (m *mutator) runAll() error {
	steps := []func() error{
		m.corruptToNonASCII,
		m.gibberishLine,
		m.reverseAndScramble,
		m.scrambleOneLine,
		m.encryptSimulation,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n"), nil
}

func writeLines(path string, lines []string) error {
	return os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644)
}

func reverse(s string) string {
	b := []byte(s)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}
