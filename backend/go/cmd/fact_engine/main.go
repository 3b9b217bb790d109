package main

import (
	"fmt"
	"io"
	"os"

	"Jaffer/backend/go/internal/factengine"
	"Jaffer/backend/go/pkg/logger"

	"github.com/sirupsen/logrus"
)

// KnowledgeFileEnv 覆盖默认的知识文件路径。
const KnowledgeFileEnv = "JAFFER_KNOWLEDGE_FILE"

func main() {
	// stdout 是引擎协议，日志只写 stderr。
	logger.InitWithOutput(logrus.WarnLevel, os.Stderr)
	os.Exit(run(os.Args[1:], os.Stdout, os.Getenv))
}

// run 把唯一的参数当作用户消息，不解析任何 flag，消息可以以 "-" 开头。
func run(args []string, stdout io.Writer, getenv func(string) string) int {
	log := logger.New("fact_engine", "", "")
	if len(args) != 1 {
		log.Error("usage: fact_engine <message>")
		return 1
	}

	path := getenv(KnowledgeFileEnv)
	if path == "" {
		path = factengine.DefaultKnowledgeFile
	}

	out, err := factengine.Answer(path, args[0])
	if err != nil {
		log.Warn(err.Error())
	}
	fmt.Fprintln(stdout, out)
	return 0
}
