package piico

import (
	"maps"

	"piicoinfo-go/types"
)

// PiicoDev addresses. Where a module has an address switch (ASW) both
// settings are listed. Names sharing a value collide on the bus.
const (
	AddrLED           types.Address = 0x08
	AddrVEML6030Off   types.Address = 0x10 // collides with VEML6040
	AddrVEML6040      types.Address = 0x10
	AddrLIS3DHOn      types.Address = 0x18
	AddrLIS3DHOff     types.Address = 0x19
	AddrTransceiver   types.Address = 0x1A
	AddrQMC6310       types.Address = 0x1C
	AddrTouch         types.Address = 0x28
	AddrVL53L1X       types.Address = 0x29
	AddrRFID          types.Address = 0x2C
	AddrUltrasonic    types.Address = 0x35 // collides with potentiometer
	AddrPotentiometer types.Address = 0x35
	AddrSSD1306       types.Address = 0x3C
	AddrButton        types.Address = 0x42
	AddrServo         types.Address = 0x44
	AddrTMP117        types.Address = 0x48 // collides with VEML6030 (ASW on)
	AddrVEML6030On    types.Address = 0x48
	AddrRV3028        types.Address = 0x52 // collides with ENS160 (ASW on)
	AddrENS160On      types.Address = 0x52
	AddrENS160Off     types.Address = 0x53
	AddrBuzzer        types.Address = 0x5C
	AddrMS5637        types.Address = 0x76
	AddrBME280        types.Address = 0x77
)

type entry struct {
	addr types.Address
	desc types.Descriptor
}

// mustTable builds a table from entries. A table holds one descriptor per
// address, so a repeated address is a programming error.
func mustTable(entries ...entry) types.Table {
	t := make(types.Table, len(entries))
	for _, e := range entries {
		if _, dup := t[e.addr]; dup {
			panic("piico: duplicate table address " + e.desc.Short)
		}
		t[e.addr] = e.desc
	}
	return t
}

// Fixed addresses and ASW-off defaults, plus ASW-on addresses that do not
// collide.
var primary = mustTable(
	entry{AddrLED, types.Descriptor{What: "RGB LED Module", Short: "LED", Long: "PiicoDev 3x RGB LED Module"}},
	entry{AddrVEML6040, types.Descriptor{What: "Colour Sensor", Short: "VEML6040", Long: "PiicoDev VEML6040 Colour Sensor"}},
	entry{AddrLIS3DHOn, types.Descriptor{What: "Accelerometer (ASW on)", Short: "LIS3DH (ASW on)", Long: "PiicoDev 3-Axis Accelerometer LIS3DH (ASW on)"}},
	entry{AddrLIS3DHOff, types.Descriptor{What: "Accelerometer (ASW off)", Short: "LIS3DH (ASW off)", Long: "PiicoDev 3-Axis Accelerometer LIS3DH (ASW off)"}},
	entry{AddrTransceiver, types.Descriptor{What: "Transceiver", Short: "TRANSCEIVER", Long: "PiicoDev Transceiver 915MHz"}},
	entry{AddrQMC6310, types.Descriptor{What: "Magnetometer", Short: "QMC6310", Long: "PiicoDev Magnetometer QMC6310"}},
	entry{AddrTouch, types.Descriptor{What: "Capacitive Touch Sensor", Short: "TOUCH", Long: "PiicoDev Capacitive Touch Sensor"}},
	entry{AddrVL53L1X, types.Descriptor{What: "Laser Distance Sensor", Short: "VL53L1X", Long: "PiicoDev Laser Distance Sensor VL53L1X"}},
	entry{AddrRFID, types.Descriptor{What: "RFID Module", Short: "RFID", Long: "PiicoDev RFID Module (NFC 13.56MHz)"}},
	entry{AddrUltrasonic, types.Descriptor{What: "Ultrasonic Rangefinder", Short: "ULTRASONIC", Long: "PiicoDev Ultrasonic Rangefinder Module"}},
	entry{AddrSSD1306, types.Descriptor{What: "OLED Module", Short: "SSD1306", Long: "PiicoDev OLED Module SSD1306"}},
	entry{AddrButton, types.Descriptor{What: "Button", Short: "BUTTON", Long: "PiicoDev Button"}},
	entry{AddrServo, types.Descriptor{What: "Servo Driver", Short: "SERVO", Long: "PiicoDev Servo Driver (4 Channel)"}},
	entry{AddrTMP117, types.Descriptor{What: "Precision Temperature Sensor", Short: "TMP117", Long: "PiicoDev TMP117 Precision Temperature Sensor"}},
	entry{AddrRV3028, types.Descriptor{What: "Real Time Clock", Short: "RV3028", Long: "PiicoDev Real Time Clock (RTC) RV3028"}},
	entry{AddrENS160Off, types.Descriptor{What: "Air Quality Sensor (ASW off)", Short: "ENS160 (ASW off)", Long: "PiicoDev Air Quality Sensor ENS160 (ASW off)"}},
	entry{AddrBuzzer, types.Descriptor{What: "Buzzer Module", Short: "BUZZER", Long: "PiicoDev Buzzer Module"}},
	entry{AddrMS5637, types.Descriptor{What: "Pressure Sensor", Short: "MS5637", Long: "PiicoDev Pressure Sensor MS5637"}},
	entry{AddrBME280, types.Descriptor{What: "Atmospheric Sensor", Short: "BME280", Long: "PiicoDev BME280 Atmospheric Sensor"}},
)

// Devices whose address is already taken by an entry in primary.
var conflicts = mustTable(
	entry{AddrVEML6030Off, types.Descriptor{What: "Ambient Light Sensor (ASW off)", Short: "VEML6030 (ASW off)", Long: "PiicoDev VEML6030 Ambient Light Sensor (ASW off)"}},
	entry{AddrPotentiometer, types.Descriptor{What: "Potentiometer", Short: "Potentiometer", Long: "PiicoDev Potentiometer (Rotary)"}},
	entry{AddrVEML6030On, types.Descriptor{What: "Ambient Light Sensor (ASW on)", Short: "VEML6030 (ASW on)", Long: "PiicoDev VEML6030 Ambient Light Sensor (ASW on)"}},
	entry{AddrENS160On, types.Descriptor{What: "Air Quality Sensor (ASW on)", Short: "ENS160 (ASW on)", Long: "PiicoDev Air Quality Sensor ENS160 (ASW on)"}},
)

// Primary returns a copy of the default-address table.
func Primary() types.Table { return maps.Clone(primary) }

// Conflicts returns a copy of the colliding-address table.
func Conflicts() types.Table { return maps.Clone(conflicts) }
