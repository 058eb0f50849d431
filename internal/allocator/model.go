package allocator

// Vacant: 染色体槽位上没有病人时的占位值
const Vacant int64 = -1

// Chromosome: 一个完整的床位→病人分配方案
// 长度等于床位数，槽位 i 存放分到第 i 张床的病人 ID 或 Vacant
// 不变量：任何一个病人 ID 在整条染色体中至多出现一次，由修复算子保证
type Chromosome []int64

func (c Chromosome) clone() Chromosome {
	out := make(Chromosome, len(c))
	copy(out, c)
	return out
}

func (c Chromosome) contains(pid int64) bool {
	for _, v := range c {
		if v == pid {
			return true
		}
	}
	return false
}
