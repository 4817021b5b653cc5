package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/John-Robertt/kdorg/internal/app/run"
	"github.com/John-Robertt/kdorg/internal/config"
	"github.com/John-Robertt/kdorg/internal/domain"
)

const (
	exitOK     = 0
	exitFailed = 1

	// exitUsage 对应 os.Exit(-1)，进程退出码为 255。
	exitUsage = -1
)

// cliEnv 汇集 CLI 的外部依赖，测试时替换为内存 buffer。
type cliEnv struct {
	stdout io.Writer
	stderr io.Writer
	cwd    string
	// interactive 为 true 时在 stderr 额外输出汇总表。
	interactive bool
}

// execute 解析参数并执行一次整理，返回进程退出码。
//
// stdout 只承载对外契约：逐条 "Move <from> to <to>"，以及 dry-run 下的新工程文档。
// 诊断日志、错误行与汇总表全部写到 stderr。
func execute(args []string, env cliEnv) int {
	var dryRun, verbose bool

	cmd := &cobra.Command{
		Use:           "kdorg <project" + config.ProjectExt + ">",
		Short:         "按素材类型整理 Kdenlive 工程引用的文件",
		Long:          "把工程引用的素材按类型移动到工程目录下的 clips/ images/ audio/ other/，并改写工程文件中的路径。",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 1 {
				return &config.Error{
					Code: domain.ErrCodeUsageInvalid,
					Err:  fmt.Errorf("需要且只能指定一个 %s 工程文件，实际收到 %d 个参数", config.ProjectExt, len(args)),
				}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(env.stderr, verbose)
			eff, err := config.LoadEffective(env.cwd, config.CLIArgs{
				Project:   args[0],
				DryRun:    dryRun,
				DryRunSet: cmd.Flags().Changed("dryRun"),
			})
			if err != nil {
				return err
			}
			if eff.ConfigFile != "" {
				logger.Debug("已读取配置文件", "path", eff.ConfigFile)
			}

			res, err := run.ExecuteWithObserver(eff, logger, newMoveLogger(env.stdout))
			if env.interactive {
				fmt.Fprintln(env.stderr, renderSummary(res.Report))
			}
			if err != nil {
				return err
			}
			if eff.DryRun {
				if _, err := env.stdout.Write(res.Document); err != nil {
					return fmt.Errorf("输出工程文档失败：%w", err)
				}
			}
			return nil
		},
	}
	if args == nil {
		// nil 会让 cobra 回退到 os.Args。
		args = []string{}
	}
	cmd.SetArgs(args)
	cmd.SetOut(env.stdout)
	cmd.SetErr(env.stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &config.Error{Code: domain.ErrCodeUsageInvalid, Err: err}
	})

	cmd.Flags().BoolVar(&dryRun, "dryRun", false, "只打印计划与新工程文档，不建目录、不移动、不写回")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "输出调试日志到 stderr")

	err := cmd.Execute()
	if err == nil {
		return exitOK
	}
	// 只输出一行诊断；此前已打印的 Move 行保留在 stdout。
	fmt.Fprintf(env.stderr, "kdorg：%v\n", err)
	if config.IsUsage(err) {
		return exitUsage
	}
	return exitFailed
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
