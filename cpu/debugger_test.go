package cpu_test

import (
	"github.com/beevik/mini6502/cpu"
	gomock "github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Debugger", func() {
	var (
		mockCtrl    *gomock.Controller
		mockHandler *MockBreakpointHandler
		c           *cpu.CPU
		debugger    *cpu.Debugger
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		mockHandler = NewMockBreakpointHandler(mockCtrl)

		// LDA #$07 ; STA $10 ; NOP
		mem := cpu.NewImage()
		Expect(mem.StoreBytes(0, []byte{0x89, 0x07, 0x85, 0x10, 0xea})).To(Succeed())
		mem.Budget = 7

		c = cpu.NewCPU(mem)
		debugger = cpu.NewDebugger(mockHandler)
		c.AttachDebugger(debugger)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should list breakpoints in address order", func() {
		debugger.AddBreakpoint(0x0004)
		debugger.AddBreakpoint(0x0002)
		debugger.AddBreakpoint(0x1000)

		bps := debugger.GetBreakpoints()
		Expect(bps).To(HaveLen(3))
		Expect(bps[0].Address).To(Equal(uint16(0x0002)))
		Expect(bps[2].Address).To(Equal(uint16(0x1000)))

		debugger.RemoveBreakpoint(0x0002)
		Expect(debugger.GetBreakpoint(0x0002)).To(BeNil())
		Expect(debugger.GetBreakpoints()).To(HaveLen(2))
	})

	It("should report execution breakpoints", func() {
		b := debugger.AddBreakpoint(0x0002)
		mockHandler.EXPECT().OnBreakpoint(c, b).Times(1)

		Expect(c.Run()).To(Succeed())
		Expect(c.State).To(Equal(cpu.Halted))
	})

	It("should ignore disabled breakpoints", func() {
		b := debugger.AddBreakpoint(0x0002)
		b.Disabled = true

		Expect(c.Run()).To(Succeed())
	})

	It("should report data breakpoints", func() {
		b := debugger.AddDataBreakpoint(0x0010)
		mockHandler.EXPECT().OnDataBreakpoint(c, b).Times(1)

		Expect(c.Run()).To(Succeed())
		v, err := c.Mem.LoadByte(0x10)
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(Equal(byte(0x07)))
	})

	It("should match conditional data breakpoints on value", func() {
		debugger.AddConditionalDataBreakpoint(0x0010, 0x08)
		Expect(c.Run()).To(Succeed())

		c.Reset()
		c.Mem.Budget = 7
		b := debugger.AddConditionalDataBreakpoint(0x0010, 0x07)
		mockHandler.EXPECT().OnDataBreakpoint(c, b).Times(1)
		Expect(c.Run()).To(Succeed())
	})

	It("should stop reporting once detached", func() {
		debugger.AddBreakpoint(0x0002)
		debugger.AddDataBreakpoint(0x0010)
		c.DetachDebugger()

		Expect(c.Run()).To(Succeed())
	})
})
