// Package store 持久化表单与提交记录。
//
// GormRepository 支持 sqlite、postgres 与 mysql；CachedRepository 在其上
// 为表单读取增加 Redis 缓存。
package store
