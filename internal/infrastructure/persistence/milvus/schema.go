// Package milvus 提供 Milvus 向量数据库访问层实现
package milvus

import (
	"github.com/milvus-io/milvus-sdk-go/v2/entity"
)

const (
	// CollectionTrendVectors 趋势向量集合
	CollectionTrendVectors = "trend_vectors"

	// VectorDimension 向量维度
	VectorDimension = 1024
)

// TrendVectorsSchema 趋势向量 Collection Schema
func TrendVectorsSchema() *entity.Schema {
	return &entity.Schema{
		CollectionName: CollectionTrendVectors,
		Description:    "Technology trend embeddings for similarity search",
		Fields: []*entity.Field{
			{
				Name:       "id",
				DataType:   entity.FieldTypeVarChar,
				PrimaryKey: true,
				AutoID:     false,
				TypeParams: map[string]string{
					"max_length": "64",
				},
			},
			{
				Name:     "vector",
				DataType: entity.FieldTypeFloatVector,
				TypeParams: map[string]string{
					"dim": "1024",
				},
			},
			{
				Name:     "tenant_id",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "64",
				},
			},
			{
				Name:     "trend_id",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "64",
				},
			},
			{
				Name:     "category",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "32",
				},
			},
			{
				Name:     "title",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "512",
				},
			},
		},
	}
}

// TrendVector 趋势向量数据结构
type TrendVector struct {
	ID       string    `json:"id"`
	Vector   []float32 `json:"vector"`
	TenantID string    `json:"tenant_id"`
	TrendID  string    `json:"trend_id"`
	Category string    `json:"category"`
	Title    string    `json:"title"`
}

// PartitionName 生成租户分区名称
func PartitionName(tenantID string) string {
	return "tenant_" + tenantID
}
