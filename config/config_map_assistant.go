package config

import (
	"strings"

	"github.com/daiguadaidai/go-d-console/model"
)

// 创建 table 映射信息的 Map, Map 的key为源表名
func MakeTableMapMap(_tableMaps []*model.TableMap) map[string]*model.TableMap {
	tableMapMap := make(map[string]*model.TableMap)

	for _, tableMap := range _tableMaps {
		tableMapMap[GetTableKey(tableMap.SourceTable)] = tableMap
	}

	return tableMapMap
}

func MakeTableNameSet(_tables []string) map[string]bool {
	tableNameSet := make(map[string]bool, len(_tables))
	for _, table := range _tables {
		tableNameSet[GetTableKey(table)] = true
	}

	return tableNameSet
}

/* 获取表map的key
Params:
    _table: 表名
*/
func GetTableKey(_table string) string {
	return strings.TrimSpace(_table)
}
