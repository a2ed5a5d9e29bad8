package snowflake

import (
	"strconv"

	"github.com/bwmarrin/snowflake"
)

var node *snowflake.Node

func init() {
	node, _ = snowflake.NewNode(1)
}

func GenID() int64 {
	return node.Generate().Int64()
}

// GenSourceID 积分流水/交易使用的业务单号
func GenSourceID(prefix string) string {
	return prefix + strconv.FormatInt(GenID(), 10)
}
