package constants

const KBolzmann float64 = 1.380649e-23                   // [J K^-1]
const ElementaryCharge float64 = 1.602176634e-19         // [C]
const FreeSpacePermittivityE0 float64 = 8.8541878188e-12 // [m^-3 kg^{-1} s^4 A^2]
const Avogadro float64 = 6.02214076e23                   // [mol^-1]
const NmToM float64 = 1e-9
