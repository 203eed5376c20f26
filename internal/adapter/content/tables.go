package content

import "github.com/andrewhigh08/audit-tracker/internal/domain"

type machineTable struct {
	name      string
	templates []domain.EntryTemplate
}

var standardTables = map[string][]domain.EntryTemplate{
	CodeISO22000: {
		{Name: "Staff hygiene", Description: "Check that staff follow hygiene procedures. Every employee wears suitable protective equipment (gloves, hair cover) and follows the hand washing protocol."},
		{Name: "Temperature control", Description: "Check storage and cooking temperatures. Refrigerators hold 0°C to 4°C and hot food is kept above 63°C."},
		{Name: "Food traceability", Description: "Review the traceability system. Every product is identifiable from reception to dispatch with supporting records."},
		{Name: "Allergen management", Description: "Check allergen segregation and that labelling complies with current regulation."},
		{Name: "Cleaning procedures", Description: "Check cleaning and disinfection. Food contact surfaces are cleaned to the documented protocol with approved products."},
		{Name: "Pest control", Description: "Check the pest control programme. Traps are placed correctly, inspected regularly and every intervention is recorded."},
		{Name: "Waste management", Description: "Review food waste handling. Containers are closed, labelled and emptied often enough to prevent contamination."},
		{Name: "HACCP critical points", Description: "Check the critical control points of the HACCP plan. Critical limits are respected and corrective actions are recorded on deviation."},
		{Name: "Microbiological monitoring", Description: "Review microbiological test results. Samples follow the sampling plan and results meet regulatory limits."},
		{Name: "Supplier audit", Description: "Check supplier evaluation. Suppliers are assessed regularly against the defined food safety requirements."},
	},
	CodeISO9001: {
		{Name: "Leadership", Description: "Assess management commitment to the quality system. The quality policy is communicated and understood at every level."},
		{Name: "Risk management", Description: "Check how risks and opportunities are identified and handled. Every significant risk has an action plan."},
		{Name: "Customer satisfaction", Description: "Review how customer satisfaction is measured. Surveys run regularly and results are analysed."},
		{Name: "Continuous improvement", Description: "Check improvement actions. Improvement processes are documented with performance indicators."},
		{Name: "Document control", Description: "Check quality documentation. Every document is current, accessible and controlled by the document procedure."},
		{Name: "Internal audits", Description: "Review the internal audit programme. Audits are planned, run by trained staff and followed by corrective actions."},
		{Name: "Management review", Description: "Check management reviews. Reviews cover every input required by the standard and produce recorded decisions."},
		{Name: "Nonconformity handling", Description: "Check nonconformity handling. Each nonconformity is recorded, analysed and tracked to closure."},
		{Name: "Quality objectives", Description: "Review quality objectives. Objectives are measurable, tracked and aligned with the quality policy."},
		{Name: "Staff competence", Description: "Check competence management. Training needs are identified, training is delivered and its effectiveness evaluated."},
	},
}

var machineTables = []machineTable{
	{
		name: "tunnel washer",
		templates: []domain.EntryTemplate{
			{Name: "Transfer system", Description: "Check the transfer between chambers. Hydraulic pushers run smoothly at 12±1 bar and position sensors are calibrated to ±2mm."},
			{Name: "Pre-wash chamber", Description: "Check the pre-wash chamber. Temperature holds 40°C±3°C and spray nozzles are clear with a 120° pattern."},
			{Name: "Main wash chamber", Description: "Inspect the main wash chamber. Temperature reaches 75°C±5°C, chemical dosing is accurate to ±2ml/kg and agitators run at 16 to 18 cycles per minute."},
			{Name: "Rinse chamber", Description: "Check the rinse chamber. Water is clear with pH 6.5 to 7.5 and fresh water supply is 30L/min±3L/min."},
			{Name: "Drying system", Description: "Check hot air drying. Temperature reaches 120°C±10°C, airflow is 1500m³/h±100m³/h and the fan runs without excessive vibration."},
			{Name: "Programmable controllers", Description: "Check the PLCs. Programs run without faults, the HMI responds in under 200ms and saved parameters load at start-up."},
			{Name: "Circulation pumps", Description: "Inspect the circulation pumps. Flow is stable at 5m³/h±0.2m³/h and mechanical seals do not leak."},
			{Name: "Extraction system", Description: "Test the integrated extraction. Drum speed reaches 400±20 rpm and the brake stops the drum within 10 seconds."},
			{Name: "Filtration system", Description: "Inspect automatic filtration. Screens retain particles over 0.5mm and self-cleaning triggers every 4 hours or at 0.8 bar differential."},
			{Name: "Output conveyor", Description: "Check the output conveyor. Speed is adjustable from 2 to 10m/min and the counter is accurate to ±1 per 100 pieces."},
		},
	},
	{
		name: "barrier washer",
		templates: []domain.EntryTemplate{
			{Name: "Split drum", Description: "Inspect the 316L stainless split drum. It turns both ways at 45±2 rpm with 70kg per compartment and vibration under 1mm/s."},
			{Name: "Inter-zone interlock", Description: "Check the interlock. Soiled side and clean side doors never open together and locking force exceeds 500N."},
			{Name: "Aseptic control panel", Description: "Check the aseptic panel. Surfaces resist 0.5% chlorine solution, buttons are IP67 and the touch screen works with medical gloves."},
			{Name: "Disinfection system", Description: "Test integrated disinfection. Ozone output is 5g/h±0.5g/h and the thermal cycle holds 85°C for at least 15 minutes."},
			{Name: "Integrated scale", Description: "Check the integrated scale. Accuracy is ±0.5kg up to 150kg and tare works correctly."},
			{Name: "Ventilation system", Description: "Inspect ventilation. Extraction is 500m³/h±50m³/h, the soiled side stays below -15Pa and HEPA filters are intact."},
			{Name: "Door seals", Description: "Check medical silicone seals. They are free of cracks, compressed evenly and rated to 150°C."},
			{Name: "Water recycling", Description: "Inspect water recycling. Recovery exceeds 30% and recycled water meets microbiological limits."},
			{Name: "Temperature sensors", Description: "Check PT100 sensors. Accuracy is ±0.5°C over 20 to 95°C and response time is under 5 seconds."},
			{Name: "Traceability system", Description: "Check RFID traceability. Tag reads succeed 99.9% of the time and cycle data export runs without errors."},
		},
	},
	{
		name: "washer extractor",
		templates: []domain.EntryTemplate{
			{Name: "Wash drum", Description: "Inspect the stainless wash drum for wear, corrosion or deformation. It turns freely and is free of scale. Rated load is 120kg."},
			{Name: "Heating system", Description: "Check electric or steam heating. Elements reach 95°C±3°C during thermal disinfection and the thermostat cuts power at 98°C."},
			{Name: "Circulation pump", Description: "Inspect the circulation pump. Nominal flow is 250L/min and pressure holds 4.5 bar through the wash cycle."},
			{Name: "Spin system", Description: "Check the centrifugal spin. Maximum speed reaches 1200±50 rpm and the magnetic brake stops the drum within 30 seconds."},
			{Name: "Control panel", Description: "Check the control panel. Every button and screen works and the 15 stored programs can be edited."},
			{Name: "Water level sensors", Description: "Test the ultrasonic level sensors. Accuracy is ±2mm from 0 to 500mm and the overfill alarm triggers above 520mm."},
			{Name: "Water supply", Description: "Check the hot and cold inlet valves. Inlet flow is 40L/min±5L/min at 3 bar and strainers are clean."},
			{Name: "Drain system", Description: "Inspect the drain pump and pipework. Drain flow reaches at least 70L/min and the check valve works."},
			{Name: "Seals and gaskets", Description: "Inspect EPDM seals and the door gasket. The door is watertight at 5 bar and the safety lock holds while running."},
			{Name: "Main motor", Description: "Check the 15kW three-phase motor and drive. Belt tension is 45N±5N, bearings run below 80dB and the motor stays under 75°C at full load."},
		},
	},
	{
		name: "front loading washer",
		templates: []domain.EntryTemplate{
			{Name: "Loading door", Description: "Check the front door. It opens 180° with less than 20N effort and the 15mm tempered glass is intact."},
			{Name: "Suspended drum", Description: "Inspect the 304 stainless drum. Drum to tub gap is 12mm±1mm and lifters are firmly fixed."},
			{Name: "Automatic dosing", Description: "Check automatic dosing. Peristaltic pumps deliver 30ml±1ml per shot and low level sensors report correctly."},
			{Name: "Transmission", Description: "Inspect the Poly-V belt. Deflection is under 8mm at 5kg and pulley misalignment is under 0.5mm."},
			{Name: "User interface", Description: "Test the capacitive touch screen. Menus appear within 300ms and all 30 stored programs are reachable."},
			{Name: "Weighing system", Description: "Check the load cells. Accuracy is ±0.2kg up to 50kg and drum tare is compensated automatically."},
			{Name: "Sound insulation", Description: "Check sound insulation. Noise stays under 68dB(A) at 1m and insulation panels are fixed."},
			{Name: "Anti-vibration system", Description: "Check the four hydraulic dampers for leaks and that dynamic balancing compensates up to 1.5kg."},
			{Name: "Hydraulic circuit", Description: "Inspect the hydraulic circuit. Valves switch in under 200ms and circuit pressure holds 2.8±0.2 bar."},
			{Name: "Safety system", Description: "Check safety functions. The door lock withstands 200N, overheat trips at 110°C±2°C and emergency stop cuts power within 100ms."},
		},
	},
	{
		name: "steam washer",
		templates: []domain.EntryTemplate{
			{Name: "Steam generator", Description: "Inspect the 18kW steam generator. It reaches 4 bar within 8 minutes and the safety valve opens at 5.5±0.2 bar."},
			{Name: "Steam injection", Description: "Check steam injection. Steam flow is 25kg/h±2kg/h at 140°C±5°C at the nozzles."},
			{Name: "Heat exchanger", Description: "Inspect the steam to water exchanger. Water reaches 80°C within 3 minutes and titanium plates show no scale."},
			{Name: "Double wall tub", Description: "Check the double wall tub. Wall temperature is uniform to ±3°C and outer surface stays under 40°C."},
			{Name: "Heat recovery", Description: "Test condensate heat recovery. Efficiency exceeds 85% and drain water leaves below 40°C."},
			{Name: "Pressure control", Description: "Check pressure control. The gauge is accurate to ±0.1 bar and the safety switch cuts power at 6 bar."},
			{Name: "Water treatment", Description: "Inspect the softener. Outlet hardness is under 3°TH and regeneration triggers after 1500L or 7 days."},
			{Name: "Thermal insulation", Description: "Check mineral wool insulation. Thickness is 50mm±5mm and the casing stays under 35°C at 95°C inside."},
			{Name: "Steam exhaust", Description: "Inspect the exhaust condenser. Visible steam is reduced by 95% with 15L/min±2L/min cooling water."},
			{Name: "Electronic regulation", Description: "Test the PID regulation. Temperature holds ±1°C at steady state and settles within 45 seconds after a 10°C step."},
		},
	},
}
