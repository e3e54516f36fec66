// Copyright (c) FormFlow Authors. Licensed under the MIT License.

/*
包 cache 提供基于 Redis 的键值缓存，用于按 id 缓存已存储的表单记录。

Manager 封装 go-redis 客户端，提供 Get/Set/GetJSON/SetJSON/Delete/Ping，
未命中时返回 ErrCacheMiss。缓存只保存持久化记录，不缓存模型输出。
*/
package cache
