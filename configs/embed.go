// Package configs 嵌入各环境的默认配置文件
package configs

import _ "embed"

// 嵌入所有环境的配置文件（在configs目录内直接引用）
//
//go:embed development/config.json
var developmentConfig []byte

//go:embed production/config.json
var productionConfig []byte

// GetDevelopmentConfig 获取开发环境配置
func GetDevelopmentConfig() []byte {
	return developmentConfig
}

// GetProductionConfig 获取生产环境配置
func GetProductionConfig() []byte {
	return productionConfig
}

// ForEnvironment 按环境名返回嵌入配置，未知环境返回 nil
func ForEnvironment(env string) []byte {
	switch env {
	case "dev", "development":
		return developmentConfig
	case "prod", "production":
		return productionConfig
	default:
		return nil
	}
}
