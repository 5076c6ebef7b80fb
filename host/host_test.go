package host_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/beevik/mini6502/host"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const program = `
	LDA #$0A   ; 2 cycles
	STA $20    ; 3 cycles
	NOP        ; 2 cycles
`

var _ = Describe("Host", func() {
	var (
		h    *host.Host
		dir  string
		path string
	)

	run := func(lines ...string) string {
		var out bytes.Buffer
		script := strings.Join(lines, "\n") + "\n"
		h.RunCommands(strings.NewReader(script), &out, false)
		return out.String()
	}

	BeforeEach(func() {
		h = host.New()
		dir = GinkgoT().TempDir()
		path = filepath.Join(dir, "prog.asm")
		Expect(os.WriteFile(path, []byte(program), 0600)).To(Succeed())
	})

	Context("assembling", func() {
		It("should load the image and report the budget", func() {
			out := run("assemble " + path)
			Expect(out).To(ContainSubstring("5 bytes, budget 7 cycles."))
			Expect(filepath.Join(dir, "prog.bin")).NotTo(BeAnExistingFile())
			Expect(filepath.Join(dir, "prog.map")).NotTo(BeAnExistingFile())
		})

		It("should save files only on request", func() {
			out := run("save", "assemble "+path, "save")
			Expect(out).To(ContainSubstring("nothing assembled"))
			Expect(out).To(ContainSubstring("Saved '"))

			bin, err := os.ReadFile(filepath.Join(dir, "prog.bin"))
			Expect(err).NotTo(HaveOccurred())
			Expect(bin).To(Equal([]byte{0x89, 0x0a, 0x85, 0x20, 0xea}))
			Expect(filepath.Join(dir, "prog.map")).To(BeAnExistingFile())
		})

		It("should report the failing line", func() {
			bad := filepath.Join(dir, "bad.asm")
			Expect(os.WriteFile(bad, []byte("NOP\nFOO\n"), 0600)).To(Succeed())

			out := run("assemble " + bad)
			Expect(out).To(ContainSubstring("line 2"))
			Expect(filepath.Join(dir, "bad.bin")).NotTo(BeAnExistingFile())
		})

		It("should write a listing when verbose", func() {
			out := run("assemble " + path + " true")
			Expect(out).To(ContainSubstring("0000-*  89 0A"))
		})
	})

	Context("running", func() {
		It("should run until the budget is spent", func() {
			out := run("assemble "+path, "run", "register", "memory dump $20 1")
			Expect(out).To(ContainSubstring("Running from $0000."))
			Expect(out).To(ContainSubstring("CPU halted after 7 cycles."))
			Expect(out).To(ContainSubstring("A=0A"))
			Expect(out).To(ContainSubstring("PC=0005"))
			Expect(out).To(ContainSubstring("0020- 0A"))
		})

		It("should step one instruction at a time", func() {
			out := run("assemble "+path, "step", "register a $FF", "step")
			Expect(out).To(ContainSubstring("0002-   85 20       STA $20"))
			Expect(out).To(ContainSubstring("Register A set to $FF."))
			Expect(out).To(ContainSubstring("0004-   EA          NOP"))
		})

		It("should repeat the last command on an empty line", func() {
			out := run("assemble "+path, "step", "", "")
			Expect(out).To(ContainSubstring("0004-   EA"))
			Expect(out).To(ContainSubstring("CPU halted after 7 cycles."))
		})

		It("should stop at a breakpoint", func() {
			out := run("assemble "+path, "breakpoint add $2", "run", "register")
			Expect(out).To(ContainSubstring("Breakpoint hit at $0002."))
			Expect(out).To(ContainSubstring("PC=0002"))
			Expect(out).NotTo(ContainSubstring("CPU halted"))
		})

		It("should stop at a conditional data breakpoint", func() {
			out := run("assemble "+path, "databreakpoint add $20 $0A", "databreakpoint list", "run")
			Expect(out).To(ContainSubstring("$0020 true     $0A"))
			Expect(out).To(ContainSubstring("Data breakpoint hit on address $0020."))
			Expect(out).To(ContainSubstring("0002-   85 20       STA $20"))
		})

		It("should skip disabled breakpoints", func() {
			out := run("assemble "+path, "breakpoint add $2", "breakpoint disable $2", "run")
			Expect(out).NotTo(ContainSubstring("Breakpoint hit"))
			Expect(out).To(ContainSubstring("CPU halted after 7 cycles."))
		})

		It("should report faults", func() {
			out := run("assemble "+path, "memory set 0 $02", "run")
			Expect(out).To(ContainSubstring("fault at $0000 (opcode $02): illegal opcode"))
		})

		It("should ignore a break while waiting for commands", func() {
			h.Break()
			out := run("assemble "+path, "run")
			Expect(out).NotTo(ContainSubstring("Interrupted"))
			Expect(out).To(ContainSubstring("CPU halted after 7 cycles."))
		})

		It("should accept breaks from another goroutine", func() {
			done := make(chan struct{})
			stopped := make(chan struct{})
			go func() {
				defer close(stopped)
				for {
					select {
					case <-done:
						return
					default:
						h.Break()
					}
				}
			}()

			out := run("assemble "+path, "run", "reset", "step 3")
			close(done)
			<-stopped

			Expect(out).To(ContainSubstring("Running from $0000."))
			Expect(out).To(ContainSubstring("CPU reset. Budget 7 cycles."))
			Expect(run("evaluate 1")).To(ContainSubstring("$0001 (1)"))
		})

		It("should restore the budget on reset", func() {
			out := run("assemble "+path, "run", "reset", "evaluate budget")
			Expect(out).To(ContainSubstring("CPU reset. Budget 7 cycles."))
			Expect(out).To(ContainSubstring("$0007 (7)"))
		})
	})

	Context("inspecting", func() {
		It("should disassemble memory", func() {
			out := run("assemble "+path, "disassemble 0 3")
			Expect(out).To(ContainSubstring("0000-   89 0A       LDA #$0A"))
			Expect(out).To(ContainSubstring("; prog.asm:3"))
			Expect(out).To(ContainSubstring("0004-   EA          NOP"))
		})

		It("should evaluate expressions", func() {
			out := run("evaluate ($10 + 2) * 3", "evaluate pc", "evaluate nope")
			Expect(out).To(ContainSubstring("$0036 (54)"))
			Expect(out).To(ContainSubstring("$0000 (0)"))
			Expect(out).To(ContainSubstring("undefined: nope"))
		})

		It("should update settings", func() {
			out := run("set memdumpbytes 4", "memory dump $100", "set nope 1", "set")
			Expect(out).To(ContainSubstring("Setting updated."))
			Expect(out).To(ContainSubstring("0100- 00 00 00 00"))
			Expect(out).To(ContainSubstring("setting 'nope' not found"))
			Expect(out).To(MatchRegexp(`MemDumpBytes\s+4`))
		})

		It("should display help", func() {
			out := run("help", "help breakpoint", "help run")
			Expect(out).To(ContainSubstring("mini6502 commands:"))
			Expect(out).To(ContainSubstring("breakpoint commands:"))
			Expect(out).To(ContainSubstring("Syntax: run [<address>]"))
		})
	})

	It("should reject unknown commands", func() {
		Expect(run("frobnicate")).To(ContainSubstring("Command not found."))
	})

	It("should stop processing commands on quit", func() {
		out := run("quit", "evaluate 1")
		Expect(out).NotTo(ContainSubstring("$0001"))
	})
})
