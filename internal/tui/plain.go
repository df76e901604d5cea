package tui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/casectl/casectl/internal/workflow"
)

// RunPlain drives the workflow with plain terminal prompts. It is used
// when TUI mode is disabled or the terminal does not support raw mode.
func RunPlain(ctrl *workflow.Controller) error {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	ctx := context.Background()

	fmt.Println("casectl workbench (plain mode)")

	for {
		printMenu(ctrl)
		fmt.Print("> ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return err
			}
			return nil
		}
		choice := strings.TrimSpace(scanner.Text())

		var err error
		switch choice {
		case "a":
			err = plainAnalyze(ctx, ctrl, scanner)
		case "q":
			_, err = ctrl.GenerateQuestion(ctx)
			if err == nil {
				fmt.Println("\n--- 题目 ---")
				fmt.Println(ctrl.Session().Question())
				if workflow.QuestionTooShort(ctrl.Session().Question()) {
					fmt.Println("(警告：题目内容过短)")
				}
			}
		case "eq":
			err = plainEdit(scanner, "题目", ctrl.EditQuestion)
		case "l":
			err = ctrl.LockQuestion()
			if err == nil {
				fmt.Println("题目已锁定")
			}
		case "g":
			_, err = ctrl.GenerateAnswer(ctx)
			if err == nil {
				fmt.Println("\n--- 标准答案 ---")
				fmt.Println(ctrl.Session().Answer())
			}
		case "ea":
			err = plainEdit(scanner, "答案", ctrl.EditAnswer)
		case "s":
			var path string
			path, err = ctrl.LockAndSave()
			if err == nil {
				fmt.Println("已保存:", path)
			}
		case "r":
			ctrl.Reset()
			fmt.Println("已重置")
		case "x", "quit", "exit":
			return nil
		default:
			fmt.Println("未知操作:", choice)
		}

		if err != nil {
			fmt.Fprintln(os.Stderr, "错误:", err)
		}
	}
}

func printMenu(ctrl *workflow.Controller) {
	fmt.Printf("\n[state: %s]", ctrl.State())
	switch ctrl.State() {
	case workflow.StateEmpty:
		fmt.Print("  a=分析案件")
	case workflow.StateAnalyzed:
		fmt.Print("  q=生成题目")
	case workflow.StateQuestionDraft:
		fmt.Print("  q=重新生成  eq=编辑题目  l=锁定题目")
	case workflow.StateQuestionLocked:
		fmt.Print("  g=生成答案")
	case workflow.StateAnswerDraft:
		fmt.Print("  g=重新生成  ea=编辑答案  s=锁定并保存")
	case workflow.StateAnswerLocked:
		if !ctrl.Saved() {
			fmt.Print("  s=重试保存")
		}
	}
	fmt.Println("  r=重置  x=退出")
}

// plainAnalyze reads the case text (terminated by a line containing only
// ".") and runs the analyze transition.
func plainAnalyze(ctx context.Context, ctrl *workflow.Controller, scanner *bufio.Scanner) error {
	fmt.Println("粘贴案件文本，单独一行 . 结束：")
	text, err := readMultiline(scanner)
	if err != nil {
		return err
	}

	analysis, err := ctrl.Analyze(ctx, text)
	if err != nil {
		return err
	}

	fmt.Println("\n--- 案件分析结果 ---")
	fmt.Println(analysis)
	if workflow.AnalysisPassed(analysis) {
		fmt.Println("=> 检测通过")
	} else {
		fmt.Println("=> 检测未通过（总分需≥6分）")
	}
	return nil
}

func plainEdit(scanner *bufio.Scanner, label string, apply func(string) error) error {
	fmt.Printf("输入新的%s内容，单独一行 . 结束：\n", label)
	text, err := readMultiline(scanner)
	if err != nil {
		return err
	}
	return apply(text)
}

func readMultiline(scanner *bufio.Scanner) (string, error) {
	var lines []string
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "." {
			return strings.Join(lines, "\n"), nil
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	if len(lines) == 0 {
		return "", io.EOF
	}
	return strings.Join(lines, "\n"), nil
}
