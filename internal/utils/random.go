package utils

import (
	"fmt"
	"math/rand"

	"github.com/mozillazg/go-pinyin"
	"github.com/storeops-dev/shift-scheduler/backend/internal/domain"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "霞", "飞", "玲", "欣",
	"超", "华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌",
}

func GenerateRandomChineseName() string {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	nameLength := rand.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[rand.Intn(len(commonNameCharacters))]
	}
	return surname + name
}

var digits = "0123456789"

// GenerateStaffCodeFromChineseName 从姓名的拼音生成员工编号
func GenerateStaffCodeFromChineseName(chineseName string) string {
	pinyinArray := pinyin.LazyConvert(chineseName, nil)
	code := ""

	for _, p := range pinyinArray {
		code += p[:1]
	}

	for i := 0; i < 4; i++ {
		code += string(digits[rand.Intn(len(digits))])
	}

	return code
}

var employmentTypes = []domain.EmploymentType{
	domain.EmploymentFullTime,
	domain.EmploymentPartTime,
}

func GenerateRandomStaff(tenantID int64, storeID int64) *domain.Staff {
	name := GenerateRandomChineseName()
	return &domain.Staff{
		TenantID:       tenantID,
		StoreID:        storeID,
		Name:           name,
		Code:           GenerateStaffCodeFromChineseName(name),
		EmploymentType: employmentTypes[rand.Intn(len(employmentTypes))],
	}
}

// GenerateRandomDaySubset 用 Fisher-Yates 洗牌算法从整月中随机取 n 天
func GenerateRandomDaySubset(daysInMonth int, n int) []int {
	days := make([]int, daysInMonth)
	for i := range days {
		days[i] = i + 1
	}

	for i := len(days) - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		days[i], days[j] = days[j], days[i]
	}

	if n > len(days) {
		n = len(days)
	}
	return days[:n]
}

// GenerateRandomWindow 生成一个整点的希望时间段
func GenerateRandomWindow() (string, string) {
	startHour := rand.Intn(6) + 9 // 9~14 点开始
	duration := rand.Intn(3) + 6  // 6~8 小时
	return fmt.Sprintf("%02d:00", startHour), fmt.Sprintf("%02d:00", startHour+duration)
}
