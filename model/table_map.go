package model

import (
	"encoding/json"
	"strings"

	"github.com/daiguadaidai/go-d-console/common"
	"github.com/juju/errors"
)

// 同步任务中的一个表映射
type TableMap struct {
	SourceTable string `json:"sourceTable"` // 源表
	TargetTable string `json:"targetTable"` // 目标表
}

/* 解析任务的 tables 字段.
支持 json 数组: [{"sourceTable":"a","targetTable":"a"}]
以及旧的逗号分隔格式: a,b,c (目标表和源表同名)
Params:
    _tables: 任务中保存的 tables 字段
*/
func ParseTableMaps(_tables string) ([]*TableMap, error) {
	tables := strings.TrimSpace(_tables)
	if tables == "" {
		return []*TableMap{}, nil
	}

	if !strings.HasPrefix(tables, "[") {
		return NewSameNameTableMaps(common.SplitTrim(tables, ",")), nil
	}

	var tableMaps []*TableMap
	if err := json.Unmarshal([]byte(tables), &tableMaps); err != nil {
		return []*TableMap{}, errors.Annotatef(err, "解析tables字段失败: %v", _tables)
	}

	result := make([]*TableMap, 0, len(tableMaps))
	for _, tableMap := range tableMaps {
		if tableMap == nil || strings.TrimSpace(tableMap.SourceTable) == "" {
			continue
		}
		if strings.TrimSpace(tableMap.TargetTable) == "" {
			tableMap.TargetTable = tableMap.SourceTable
		}
		result = append(result, tableMap)
	}

	return result, nil
}

// 目标表名和源表名相同
func NewSameNameTableMaps(_sourceTables []string) []*TableMap {
	tableMaps := make([]*TableMap, 0, len(_sourceTables))
	for _, sourceTable := range _sourceTables {
		tableMaps = append(tableMaps, &TableMap{
			SourceTable: sourceTable,
			TargetTable: sourceTable,
		})
	}

	return tableMaps
}

// 生成保存到任务中的 tables 字段
func FormatTableMaps(_tableMaps []*TableMap) (string, error) {
	raw, err := json.Marshal(_tableMaps)
	if err != nil {
		return "", errors.Annotatef(err, "生成tables字段失败")
	}

	return string(raw), nil
}

func SourceTableNames(_tableMaps []*TableMap) []string {
	names := make([]string, 0, len(_tableMaps))
	for _, tableMap := range _tableMaps {
		names = append(names, tableMap.SourceTable)
	}

	return names
}
