// Copyright (c) FormFlow Authors. Licensed under the MIT License.

/*
# 概述

包 structured 从模型的自由文本输出中恢复 JSON 对象。

模型经常在 JSON 前后附加说明文字或 Markdown 代码块，本包按固定顺序
尝试多种策略提取第一个合法的 JSON 对象，全部失败时返回 [ExtractionError]，
由调用方决定回退值。

# 核心函数

  - ExtractJSON：返回 map[string]any 形式的对象
  - ExtractInto：将恢复出的对象解码到类型化的值

# 提取顺序

 1. 整段文本严格解析
 2. 从第一个 '{' 起做括号配对扫描（忽略 JSON 字符串内的括号与转义）
 3. 从第一个 '{' 到最后一个 '}' 的贪婪区间

顶层不是对象的 JSON 值（数组、字符串、数字）不视为成功。
*/
package structured
