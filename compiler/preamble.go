package compiler

import (
	"fmt"
	"io"
)

// AbortMessage is printed to standard error by a compiled program whose
// pointer moves below the first cell.
const AbortMessage = "abort: pointer out of range"

// The preamble targets x86-64 Linux with GNU as (AT&T syntax) and raw system
// calls, so the output links with a bare `ld` and needs no libc.
//
// write_byte and read_byte transfer the single byte at region[pointer].
// cleanup drains buffered input in chunk-sized reads, stopping at the first
// short read, but only if read_byte ever ran. It then exits with status 0.
// abort reports the underflow and exits with status 1.
const preambleFormat = `# generated by bfc: %[1]d cells
	.section .data
has_read:
	.byte 0
	.align 4
pointer:
	.long 0
abort_message:
	.ascii "%[3]s\n"
	abort_message_len = . - abort_message

	.section .bss
	.align 16
region:
	.skip %[1]d

	.section .text
	.globl _start

write_byte:
	movslq pointer(%%rip), %%rsi
	leaq region(%%rip), %%rax
	addq %%rax, %%rsi
	movl $1, %%edi
	movl $1, %%edx
	movl $1, %%eax
	syscall
	ret

read_byte:
	movb $1, has_read(%%rip)
	movslq pointer(%%rip), %%rsi
	leaq region(%%rip), %%rax
	addq %%rax, %%rsi
	xorl %%edi, %%edi
	movl $1, %%edx
	xorl %%eax, %%eax
	syscall
	ret

cleanup:
	cmpb $0, has_read(%%rip)
	je exit
drain:
	leaq region(%%rip), %%rsi
	xorl %%edi, %%edi
	movl $%[2]d, %%edx
	xorl %%eax, %%eax
	syscall
	cmpq $%[2]d, %%rax
	je drain
exit:
	movl $60, %%eax
	xorl %%edi, %%edi
	syscall

abort:
	movl $2, %%edi
	leaq abort_message(%%rip), %%rsi
	movl $abort_message_len, %%edx
	movl $1, %%eax
	syscall
	movl $60, %%eax
	movl $1, %%edi
	syscall

_start:
`

const epilogue = `	call cleanup

	.section .note.GNU-stack,"",@progbits
`

func writePreamble(w io.Writer, cells, chunk int) {
	fmt.Fprintf(w, preambleFormat, cells, chunk, AbortMessage)
}
