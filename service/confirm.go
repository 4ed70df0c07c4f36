package service

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

/* 按行读取标准输入. 交互命令和确认提示共用一个读取者,
后台只有一个 goroutine 在读, 避免两边抢同一行输入.
*/
type LineReader struct {
	in    io.Reader
	once  sync.Once
	lines chan string
}

func NewLineReader(_in io.Reader) *LineReader {
	return &LineReader{
		in:    _in,
		lines: make(chan string),
	}
}

func (this *LineReader) start() {
	go func() {
		defer close(this.lines)

		scanner := bufio.NewScanner(this.in)
		for scanner.Scan() {
			this.lines <- strings.TrimSpace(scanner.Text())
		}
	}()
}

// 读取下一行, 输入结束返回 io.EOF
func (this *LineReader) Next(ctx context.Context) (string, error) {
	this.once.Do(this.start)

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-this.lines:
		if !ok {
			return "", io.EOF
		}
		return line, nil
	}
}

// 在终端询问用户是否确认, 只有输入 y/yes 才算确认, 输入结束视为取消
type StdinConfirmer struct {
	Reader *LineReader
	Out    io.Writer
}

func (this *StdinConfirmer) Confirm(_prompt string) bool {
	fmt.Fprintf(this.Out, "%v [y/N]: ", _prompt)

	answer, err := this.Reader.Next(context.Background())
	if err != nil {
		fmt.Fprintln(this.Out)
		return false
	}

	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
