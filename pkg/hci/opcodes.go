package hci

// https://software-dl.ti.com/simplelink/esd/simplelink_cc13x2_sdk/1.60.00.29_new/exports/docs/ble5stack/vendor_specific_guide/BLE_Vendor_Specific_HCI_Guide/hci_interface.html

type PacketType uint8

const (
	PacketTypeCommand         PacketType = 0x01
	PacketTypeACLData         PacketType = 0x02
	PacketTypeSynchronousData PacketType = 0x03
	PacketTypeEvent           PacketType = 0x04
	PacketTypeExtendedCommand PacketType = 0x09
)

type Opcode uint16

const (
	OpcodeReset                    Opcode = 0x0C03
	OpcodeReadBDAddr               Opcode = 0x1009
	OpcodeClearFilterAcceptList    Opcode = 0x2010
	OpcodeReadFilterAcceptListSize Opcode = 0x200F
	OpcodeSetEventMask             Opcode = 0x0c01
	OpcodeLESetEventMask           Opcode = 0x2001
	OpcodeLEReadBufferSize         Opcode = 0x2002
	OpcodeLEReadSupportedStates    Opcode = 0x201C

	// LE Rand, Vol 4, Part E, Section 7.8.7.
	OpcodeLERand Opcode = 0x2018

	// LE Extended Advertising, Vol 4, Part E, Section 7.8.53-7.8.62.
	OpcodeLESetAdvertisingSetRandomAddress       Opcode = 0x2035
	OpcodeLESetExtendedAdvertisingParameters     Opcode = 0x2036
	OpcodeLESetExtendedAdvertisingData           Opcode = 0x2037
	OpcodeLESetExtendedScanResponseData          Opcode = 0x2038
	OpcodeLESetExtendedAdvertisingEnable         Opcode = 0x2039
	OpcodeLEReadMaximumAdvertisingDataLength     Opcode = 0x203A
	OpcodeLEReadNumberOfSupportedAdvertisingSets Opcode = 0x203B
	OpcodeLERemoveAdvertisingSet                 Opcode = 0x203C
	OpcodeLEClearAdvertisingSets                 Opcode = 0x203D

	// LE Periodic Advertising, Vol 4, Part E, Section 7.8.61-7.8.63.
	OpcodeLESetPeriodicAdvertisingParameters Opcode = 0x203E
	OpcodeLESetPeriodicAdvertisingData       Opcode = 0x203F
	OpcodeLESetPeriodicAdvertisingEnable     Opcode = 0x2040

	// LE Isochronous Broadcast (BIG), Vol 4, Part E, Section 7.8.103-7.8.105.
	OpcodeLECreateBIG    Opcode = 0x2068
	OpcodeLETerminateBIG Opcode = 0x206A
)

type EventCode uint8

const (
	EventCodeDisconnectionComplete                EventCode = 0x05
	EventCodeEncryptionChange                     EventCode = 0x08
	EventCodeReadRemoteVersionInformationComplete EventCode = 0x0C
	EventCodeCommandComplete                      EventCode = 0x0E
	EventCodeCommandStatus                        EventCode = 0x0F
	EventCodeHardwareError                        EventCode = 0x10
	EventCodeNumberOfCompletedPackets             EventCode = 0x13
	EventCodeDataBufferOverflow                   EventCode = 0x1A
	EventCodeEncryptionKeyRefreshComplete         EventCode = 0x30
	EventCodeAuthenticatedPayloadTimeoutExpired   EventCode = 0x57
	EventCodeLEMeta                               EventCode = 0x3E
)

type LEMetaSubeventCode uint8

const (
	LEMetaSubeventCodeConnectionComplete             LEMetaSubeventCode = 0x01
	LEMetaSubeventCodeAdvertisingReport              LEMetaSubeventCode = 0x02
	LEMetaSubeventCodeConnectionUpdate               LEMetaSubeventCode = 0x03
	LEMetaSubeventCodeReadRemoteUsedFeaturesComplete LEMetaSubeventCode = 0x04
	LEMetaSubeventCodeLongTermKeyRequest             LEMetaSubeventCode = 0x05
	LEMetaSubeventCodeReadLocalP256PublicKeyComplete LEMetaSubeventCode = 0x08
	LEMetaSubeventCodeGenerateDHKeyComplete          LEMetaSubeventCode = 0x09
	LEMetaSubeventCodeEnhancedConnectionComplete     LEMetaSubeventCode = 0x0A
	LEMetaSubeventCodePHYUpdateComplete               LEMetaSubeventCode = 0x0C
	LEMetaSubeventCodeExtendedAdvertisingReport      LEMetaSubeventCode = 0x0D
	LEMetaSubeventCodeAdvertisingSetTerminated       LEMetaSubeventCode = 0x12
	LEMetaSubeventCodeCreateBIGComplete              LEMetaSubeventCode = 0x1B
	LEMetaSubeventCodeTerminateBIGComplete           LEMetaSubeventCode = 0x1C
)
