package models

// InitialFRTUs sample devices written on first access to an empty store.
func InitialFRTUs() []FRTU {
	return []FRTU{
		{
			ID:              "1",
			SerialNumber:    "FRTU-PEA-001",
			Substation:      "สถานีไฟฟ้าเชียงใหม่ 1",
			Feeder:          "F01",
			Location:        "หน้า รร. ยุพราช",
			IPAddress:       "192.168.1.101",
			Status:          FRTUStatusOnline,
			CommandCode:     "CMD-001",
			EventDetails:    "ตรวจสอบประจำปี แบตเตอรี่ปกติ",
			PHOSData:        "-",
			PHBOData:        "-",
			LastMaintenance: "2023-10-20",
			Technician:      "นายสมชาย ใจดี",
		},
		{
			ID:              "2",
			SerialNumber:    "FRTU-PEA-002",
			Substation:      "สถานีไฟฟ้าเชียงใหม่ 1",
			Feeder:          "F02",
			Location:        "แยกภูคำ",
			IPAddress:       "192.168.1.102",
			Status:          FRTUStatusOffline,
			CommandCode:     "CMD-002",
			EventDetails:    "รอเปลี่ยนอุปกรณ์สื่อสาร",
			PHOSData:        "แจ้งซ่อมแล้ว",
			PHBOData:        "-",
			LastMaintenance: "2023-11-05",
			Technician:      "นายวิชัย รักงาน",
		},
		{
			ID:              "3",
			SerialNumber:    "FRTU-PEA-003",
			Substation:      "สถานีไฟฟ้าแม่ริม",
			Feeder:          "F05",
			Location:        "หน้า อบต. ดอนแก้ว",
			IPAddress:       "192.168.2.15",
			Status:          FRTUStatusInitializing,
			CommandCode:     "CMD-003",
			EventDetails:    "กำลังปรับปรุงเฟิร์มแวร์",
			PHOSData:        "-",
			PHBOData:        "รออนุมัติ",
			LastMaintenance: "2024-05-20",
			Technician:      "นายสมศักดิ์ ช่างไฟ",
		},
	}
}

// InitialEmployees fallback technician directory.
func InitialEmployees() []string {
	return []string{
		"นายสมชาย ใจดี",
		"นายวิชัย รักงาน",
		"นายสมศักดิ์ ช่างไฟ",
		"นางสาวมานี มีใจ",
		"นายชูใจ ใฝ่ดี",
	}
}
